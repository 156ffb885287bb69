package post

import (
	"errors"

	"gorm.io/gorm"
)

// PostRepository defines feed persistence.
type PostRepository interface {
	GetFeed() ([]PostView, error)
	GetPostByID(id uint) (*Post, error)
	GetPostView(id uint) (*PostView, error)
	CreatePost(p *Post) error
	UpdatePost(p *Post) error
	DeletePost(id uint) error

	GetCommentByID(id uint) (*PostComment, error)
	CreateComment(c *PostComment) error
	DeleteComment(id uint) error

	HasPostLike(postID, userID uint) (bool, error)
	CreatePostLike(postID, userID uint) error
	DeletePostLike(postID, userID uint) error

	HasCommentLike(commentID, userID uint) (bool, error)
	CreateCommentLike(commentID, userID uint) error
	DeleteCommentLike(commentID, userID uint) error

	UserExists(id uint) (bool, error)
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

const postSelect = `posts.*, users.first_name AS author_first_name,
	users.last_name AS author_last_name, users.avatar_url AS author_avatar_url,
	(SELECT COUNT(*) FROM post_likes WHERE post_likes.post_id = posts.id
		AND post_likes.deleted_at IS NULL) AS like_count`

const commentSelect = `post_comments.*, users.first_name AS author_first_name,
	users.last_name AS author_last_name, users.avatar_url AS author_avatar_url,
	(SELECT COUNT(*) FROM comment_likes WHERE comment_likes.comment_id = post_comments.id
		AND comment_likes.deleted_at IS NULL) AS like_count`

func (r *postRepository) GetFeed() ([]PostView, error) {
	var posts []PostView
	err := r.db.Table("posts").
		Select(postSelect).
		Joins("JOIN users ON users.id = posts.author_id").
		Where("posts.deleted_at IS NULL").
		Order("posts.created_at desc").
		Scan(&posts).Error
	if err != nil {
		return nil, err
	}

	for i := range posts {
		comments, err := r.loadComments(posts[i].ID)
		if err != nil {
			return nil, err
		}
		posts[i].Comments = comments
	}
	return posts, nil
}

func (r *postRepository) loadComments(postID uint) ([]CommentView, error) {
	var comments []CommentView
	err := r.db.Table("post_comments").
		Select(commentSelect).
		Joins("JOIN users ON users.id = post_comments.author_id").
		Where("post_comments.post_id = ? AND post_comments.deleted_at IS NULL", postID).
		Order("post_comments.created_at asc").
		Scan(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *postRepository) GetPostView(id uint) (*PostView, error) {
	var v PostView
	err := r.db.Table("posts").
		Select(postSelect).
		Joins("JOIN users ON users.id = posts.author_id").
		Where("posts.id = ? AND posts.deleted_at IS NULL", id).
		Scan(&v).Error
	if err != nil {
		return nil, err
	}
	if v.ID == 0 {
		return nil, nil
	}
	comments, err := r.loadComments(v.ID)
	if err != nil {
		return nil, err
	}
	v.Comments = comments
	return &v, nil
}

func (r *postRepository) GetPostByID(id uint) (*Post, error) {
	var p Post
	if err := r.db.First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *postRepository) CreatePost(p *Post) error {
	return r.db.Create(p).Error
}

func (r *postRepository) UpdatePost(p *Post) error {
	return r.db.Save(p).Error
}

func (r *postRepository) DeletePost(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().
			Where("comment_id IN (?)", tx.Table("post_comments").Select("id").Where("post_id = ?", id)).
			Delete(&CommentLike{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("post_id = ?", id).Delete(&PostComment{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("post_id = ?", id).Delete(&PostLike{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&Post{}, id).Error
	})
}

func (r *postRepository) GetCommentByID(id uint) (*PostComment, error) {
	var c PostComment
	if err := r.db.First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *postRepository) CreateComment(c *PostComment) error {
	return r.db.Create(c).Error
}

func (r *postRepository) DeleteComment(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("comment_id = ?", id).Delete(&CommentLike{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&PostComment{}, id).Error
	})
}

func (r *postRepository) HasPostLike(postID, userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&PostLike{}).Where("post_id = ? AND user_id = ?", postID, userID).Count(&count).Error
	return count > 0, err
}

func (r *postRepository) CreatePostLike(postID, userID uint) error {
	return r.db.Create(&PostLike{PostID: postID, UserID: userID}).Error
}

func (r *postRepository) DeletePostLike(postID, userID uint) error {
	return r.db.Unscoped().
		Where("post_id = ? AND user_id = ?", postID, userID).
		Delete(&PostLike{}).Error
}

func (r *postRepository) HasCommentLike(commentID, userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&CommentLike{}).Where("comment_id = ? AND user_id = ?", commentID, userID).Count(&count).Error
	return count > 0, err
}

func (r *postRepository) CreateCommentLike(commentID, userID uint) error {
	return r.db.Create(&CommentLike{CommentID: commentID, UserID: userID}).Error
}

func (r *postRepository) DeleteCommentLike(commentID, userID uint) error {
	return r.db.Unscoped().
		Where("comment_id = ? AND user_id = ?", commentID, userID).
		Delete(&CommentLike{}).Error
}

func (r *postRepository) UserExists(id uint) (bool, error) {
	var exists bool
	err := r.db.Table("users").Select("1").Where("id = ? AND deleted_at IS NULL", id).Scan(&exists).Error
	return exists, err
}
