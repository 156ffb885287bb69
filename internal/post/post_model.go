package post

import (
	"gorm.io/gorm"

	"github.com/teamup-app/teamup/internal/models"
)

// Post is a feed entry. Likes and comments are separate keyed rows rather
// than embedded arrays, so counting and toggling are single-row operations.
type Post struct {
	gorm.Model
	AuthorID uint               `json:"author_id" gorm:"index;not null"`
	Content  string             `json:"content"`
	Files    models.StringSlice `json:"files" gorm:"type:jsonb"`
}

type PostComment struct {
	gorm.Model
	PostID   uint   `json:"post_id" gorm:"index;not null"`
	AuthorID uint   `json:"author_id" gorm:"not null"`
	Text     string `json:"text" gorm:"not null"`
}

type PostLike struct {
	gorm.Model
	PostID uint `json:"post_id" gorm:"index:idx_post_like,unique"`
	UserID uint `json:"user_id" gorm:"index:idx_post_like,unique"`
}

type CommentLike struct {
	gorm.Model
	CommentID uint `json:"comment_id" gorm:"index:idx_comment_like,unique"`
	UserID    uint `json:"user_id" gorm:"index:idx_comment_like,unique"`
}

// CommentView is a comment with its like tally and author display fields.
type CommentView struct {
	PostComment
	AuthorFirstName string `json:"author_first_name"`
	AuthorLastName  string `json:"author_last_name"`
	AuthorAvatarURL string `json:"author_avatar_url"`
	LikeCount       int64  `json:"like_count"`
}

// PostView is a feed projection: the post plus author display fields,
// like tally and resolved comments.
type PostView struct {
	Post
	AuthorFirstName string        `json:"author_first_name"`
	AuthorLastName  string        `json:"author_last_name"`
	AuthorAvatarURL string        `json:"author_avatar_url"`
	LikeCount       int64         `json:"like_count"`
	Comments        []CommentView `json:"comments"`
}
