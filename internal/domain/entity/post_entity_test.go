package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestPostValidate(t *testing.T) {
	cases := []struct {
		name    string
		post    Post
		wantErr error
	}{
		{"nothing", Post{}, ErrEmptyPost},
		{"empty content", Post{Content: strPtr("")}, ErrEmptyPost},
		{"blank content", Post{Content: strPtr("  \n\t")}, ErrEmptyPost},
		{"blank content and image", Post{Content: strPtr(" "), ImageURL: strPtr("")}, ErrEmptyPost},
		{"text only", Post{Content: strPtr("hello")}, nil},
		{"image only", Post{ImageURL: strPtr("/uploads/posts/a.png")}, nil},
		{"both", Post{Content: strPtr("hi"), ImageURL: strPtr("/uploads/posts/a.png")}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.post.Validate()
			if tc.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestValidateCommentContent(t *testing.T) {
	assert.ErrorIs(t, ValidateCommentContent(""), ErrEmptyComment)
	assert.ErrorIs(t, ValidateCommentContent("   "), ErrEmptyComment)
	assert.NoError(t, ValidateCommentContent("nice post"))
}
