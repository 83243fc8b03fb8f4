package persistence

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oksasatya/go-social-api/internal/domain/entity"
	"github.com/oksasatya/go-social-api/internal/domain/repository"
)

const newestFirst = "posts.created_at DESC, posts.id DESC"

type PostRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db: db}
}

var _ repository.PostRepository = (*PostRepository)(nil)

func (r *PostRepository) Create(ctx context.Context, p *entity.Post) error {
	// Author is loaded for reads only; never upsert it from here.
	return translateError(r.db.WithContext(ctx).Omit(clause.Associations).Create(p).Error)
}

func (r *PostRepository) GetByID(ctx context.Context, id uint) (*entity.Post, error) {
	var p entity.Post
	if err := postGraph(r.db.WithContext(ctx)).First(&p, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &p, nil
}

func (r *PostRepository) List(ctx context.Context, limit, offset int) ([]entity.Post, error) {
	var posts []entity.Post
	err := postGraph(r.db.WithContext(ctx)).
		Order(newestFirst).
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	return posts, err
}

func (r *PostRepository) ListByAuthor(ctx context.Context, authorID uint) ([]entity.Post, error) {
	var posts []entity.Post
	err := postGraph(r.db.WithContext(ctx)).
		Where("author_id = ?", authorID).
		Order(newestFirst).
		Find(&posts).Error
	return posts, err
}

func (r *PostRepository) ImageRefsByAuthor(ctx context.Context, authorID uint) ([]string, error) {
	var refs []string
	err := r.db.WithContext(ctx).
		Model(&entity.Post{}).
		Where("author_id = ? AND image_url IS NOT NULL AND image_url <> ''", authorID).
		Pluck("image_url", &refs).Error
	return refs, err
}

func (r *PostRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&entity.Post{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repository.ErrNotFound
		}
		return nil
	})
}
