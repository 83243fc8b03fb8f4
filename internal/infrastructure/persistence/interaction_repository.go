package persistence

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oksasatya/go-social-api/internal/domain/entity"
	"github.com/oksasatya/go-social-api/internal/domain/repository"
)

// lockPost takes a row lock on the post for the rest of tx. SQLite has no
// FOR UPDATE; its single writer connection gives the same serialization.
func lockPost(tx *gorm.DB, postID uint) error {
	var p entity.Post
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		First(&p, postID).Error
	return translateError(err)
}

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

var _ repository.CommentRepository = (*CommentRepository)(nil)

func (r *CommentRepository) Create(ctx context.Context, c *entity.Comment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockPost(tx, c.PostID); err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Create(c).Error; err != nil {
			return translateError(err)
		}
		return tx.Preload("Author").First(c, c.ID).Error
	})
}

type LikeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) *LikeRepository {
	return &LikeRepository{db: db}
}

var _ repository.LikeRepository = (*LikeRepository)(nil)

// Toggle runs lock, conditional delete, then conditional insert in one
// transaction so concurrent toggles on a post are serialized.
func (r *LikeRepository) Toggle(ctx context.Context, postID, userID uint) (bool, int64, error) {
	var (
		liked bool
		count int64
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockPost(tx, postID); err != nil {
			return err
		}
		res := tx.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&entity.Like{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			like := entity.Like{PostID: postID, UserID: userID}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&like).Error; err != nil {
				return translateError(err)
			}
			liked = true
		}
		return tx.Model(&entity.Like{}).Where("post_id = ?", postID).Count(&count).Error
	})
	if err != nil {
		return false, 0, err
	}
	return liked, count, nil
}
