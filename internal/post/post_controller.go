package post

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/teamup-app/teamup/config"
	"github.com/teamup-app/teamup/internal/middleware"
	"github.com/teamup-app/teamup/pkg/responses"
)

// PostController handles the feed: posts, likes and comments.
type PostController struct {
	repo      PostRepository
	appConfig *config.Config
}

func NewPostController(repo PostRepository, appConfig *config.Config) *PostController {
	return &PostController{repo: repo, appConfig: appConfig}
}

type CreatePostRequest struct {
	Content string   `json:"content"`
	Files   []string `json:"files"`
}

type UpdatePostRequest struct {
	Content *string  `json:"content"`
	Files   []string `json:"files"`
}

type AddCommentRequest struct {
	Text string `json:"text" binding:"required,max=2000"`
}

// GetFeed godoc
// @Summary Feed of posts, newest first
// @Tags Posts
// @Produce json
// @Success 200 {object} responses.SuccessResponse{data=[]PostView}
// @Router /posts [get]
func (pc *PostController) GetFeed(c *gin.Context) {
	posts, err := pc.repo.GetFeed()
	if err != nil {
		responses.InternalServerError(c, "Failed to fetch posts")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "", posts)
}

// CreatePost godoc
// @Summary Create a post
// @Tags Posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param post body CreatePostRequest true "Post"
// @Success 201 {object} responses.SuccessResponse{data=Post}
// @Failure 400 {object} responses.ErrorResponse
// @Router /posts [post]
func (pc *PostController) CreatePost(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "Authentication required")
		return
	}

	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	if req.Content == "" && len(req.Files) == 0 {
		responses.BadRequest(c, "A post needs content or files")
		return
	}

	post := Post{AuthorID: userID, Content: req.Content, Files: req.Files}
	if err := pc.repo.CreatePost(&post); err != nil {
		responses.InternalServerError(c, "Failed to create post")
		return
	}
	responses.SendSuccess(c, http.StatusCreated, "Post created", post)
}

// GetPostByID godoc
// @Summary Get a single post with comments and like tallies
// @Tags Posts
// @Produce json
// @Param post_id path int true "Post ID"
// @Success 200 {object} responses.SuccessResponse{data=PostView}
// @Failure 404 {object} responses.ErrorResponse
// @Router /posts/{post_id} [get]
func (pc *PostController) GetPostByID(c *gin.Context) {
	postID, err := parseIDParam(c, "post_id")
	if err != nil {
		responses.BadRequest(c, "Invalid post ID")
		return
	}

	view, err := pc.repo.GetPostView(postID)
	if err != nil {
		responses.InternalServerError(c, "Failed to fetch post")
		return
	}
	if view == nil {
		responses.NotFound(c, "Post")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "", view)
}

// UpdatePost godoc
// @Summary Edit a post
// @Tags Posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param post_id path int true "Post ID"
// @Param post body UpdatePostRequest true "Fields to change"
// @Success 200 {object} responses.SuccessResponse{data=Post}
// @Failure 403 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /posts/{post_id} [put]
func (pc *PostController) UpdatePost(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "Authentication required")
		return
	}
	postID, err := parseIDParam(c, "post_id")
	if err != nil {
		responses.BadRequest(c, "Invalid post ID")
		return
	}

	var req UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	post, err := pc.repo.GetPostByID(postID)
	if err != nil {
		responses.InternalServerError(c, "Failed to fetch post")
		return
	}
	if post == nil {
		responses.NotFound(c, "Post")
		return
	}
	if post.AuthorID != userID {
		responses.Forbidden(c, "You can only edit your own posts")
		return
	}

	if req.Content != nil {
		post.Content = *req.Content
	}
	if req.Files != nil {
		post.Files = req.Files
	}
	if post.Content == "" && len(post.Files) == 0 {
		responses.BadRequest(c, "A post needs content or files")
		return
	}

	if err := pc.repo.UpdatePost(post); err != nil {
		responses.InternalServerError(c, "Failed to update post")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Post updated", post)
}

// DeletePost godoc
// @Summary Delete a post with its likes and comments
// @Tags Posts
// @Produce json
// @Security BearerAuth
// @Param post_id path int true "Post ID"
// @Success 200 {object} responses.SuccessResponse
// @Failure 403 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /posts/{post_id} [delete]
func (pc *PostController) DeletePost(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "Authentication required")
		return
	}
	postID, err := parseIDParam(c, "post_id")
	if err != nil {
		responses.BadRequest(c, "Invalid post ID")
		return
	}

	post, err := pc.repo.GetPostByID(postID)
	if err != nil {
		responses.InternalServerError(c, "Failed to fetch post")
		return
	}
	if post == nil {
		responses.NotFound(c, "Post")
		return
	}
	if post.AuthorID != userID {
		responses.Forbidden(c, "You can only delete your own posts")
		return
	}

	if err := pc.repo.DeletePost(postID); err != nil {
		responses.InternalServerError(c, "Failed to delete post")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Post deleted", nil)
}

// LikePost godoc
// @Summary Like a post
// @Tags Posts
// @Produce json
// @Security BearerAuth
// @Param post_id path int true "Post ID"
// @Success 200 {object} responses.SuccessResponse
// @Failure 404 {object} responses.ErrorResponse
// @Failure 409 {object} responses.ErrorResponse
// @Router /posts/{post_id}/like [post]
func (pc *PostController) LikePost(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "Authentication required")
		return
	}
	postID, err := parseIDParam(c, "post_id")
	if err != nil {
		responses.BadRequest(c, "Invalid post ID")
		return
	}

	post, err := pc.repo.GetPostByID(postID)
	if err != nil {
		responses.InternalServerError(c, "Failed to fetch post")
		return
	}
	if post == nil {
		responses.NotFound(c, "Post")
		return
	}

	liked, err := pc.repo.HasPostLike(postID, userID)
	if err != nil {
		responses.InternalServerError(c, "Failed to check like")
		return
	}
	if liked {
		responses.Conflict(c, "You have already liked this post")
		return
	}

	if err := pc.repo.CreatePostLike(postID, userID); err != nil {
		responses.InternalServerError(c, "Failed to like post")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Post liked", nil)
}

// UnlikePost godoc
// @Summary Remove a like from a post
// @Tags Posts
// @Produce json
// @Security BearerAuth
// @Param post_id path int true "Post ID"
// @Success 200 {object} responses.SuccessResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /posts/{post_id}/like [delete]
func (pc *PostController) UnlikePost(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "Authentication required")
		return
	}
	postID, err := parseIDParam(c, "post_id")
	if err != nil {
		responses.BadRequest(c, "Invalid post ID")
		return
	}

	liked, err := pc.repo.HasPostLike(postID, userID)
	if err != nil {
		responses.InternalServerError(c, "Failed to check like")
		return
	}
	if !liked {
		responses.NotFound(c, "Like")
		return
	}

	if err := pc.repo.DeletePostLike(postID, userID); err != nil {
		responses.InternalServerError(c, "Failed to unlike post")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Like removed", nil)
}

// AddComment godoc
// @Summary Comment on a post
// @Tags Posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param post_id path int true "Post ID"
// @Param comment body AddCommentRequest true "Comment"
// @Success 201 {object} responses.SuccessResponse{data=PostComment}
// @Failure 404 {object} responses.ErrorResponse
// @Router /posts/{post_id}/comments [post]
func (pc *PostController) AddComment(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "Authentication required")
		return
	}
	postID, err := parseIDParam(c, "post_id")
	if err != nil {
		responses.BadRequest(c, "Invalid post ID")
		return
	}

	var req AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	post, err := pc.repo.GetPostByID(postID)
	if err != nil {
		responses.InternalServerError(c, "Failed to fetch post")
		return
	}
	if post == nil {
		responses.NotFound(c, "Post")
		return
	}

	comment := PostComment{PostID: postID, AuthorID: userID, Text: req.Text}
	if err := pc.repo.CreateComment(&comment); err != nil {
		responses.InternalServerError(c, "Failed to add comment")
		return
	}
	responses.SendSuccess(c, http.StatusCreated, "Comment added", comment)
}

// DeleteComment godoc
// @Summary Delete a comment
// @Tags Posts
// @Produce json
// @Security BearerAuth
// @Param comment_id path int true "Comment ID"
// @Success 200 {object} responses.SuccessResponse
// @Failure 403 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /posts/comments/{comment_id} [delete]
func (pc *PostController) DeleteComment(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "Authentication required")
		return
	}
	commentID, err := parseIDParam(c, "comment_id")
	if err != nil {
		responses.BadRequest(c, "Invalid comment ID")
		return
	}

	comment, err := pc.repo.GetCommentByID(commentID)
	if err != nil {
		responses.InternalServerError(c, "Failed to fetch comment")
		return
	}
	if comment == nil {
		responses.NotFound(c, "Comment")
		return
	}
	if comment.AuthorID != userID {
		responses.Forbidden(c, "You can only delete your own comments")
		return
	}

	if err := pc.repo.DeleteComment(commentID); err != nil {
		responses.InternalServerError(c, "Failed to delete comment")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Comment deleted", nil)
}

// LikeComment godoc
// @Summary Like a comment
// @Tags Posts
// @Produce json
// @Security BearerAuth
// @Param comment_id path int true "Comment ID"
// @Success 200 {object} responses.SuccessResponse
// @Failure 404 {object} responses.ErrorResponse
// @Failure 409 {object} responses.ErrorResponse
// @Router /posts/comments/{comment_id}/like [post]
func (pc *PostController) LikeComment(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "Authentication required")
		return
	}
	commentID, err := parseIDParam(c, "comment_id")
	if err != nil {
		responses.BadRequest(c, "Invalid comment ID")
		return
	}

	comment, err := pc.repo.GetCommentByID(commentID)
	if err != nil {
		responses.InternalServerError(c, "Failed to fetch comment")
		return
	}
	if comment == nil {
		responses.NotFound(c, "Comment")
		return
	}

	liked, err := pc.repo.HasCommentLike(commentID, userID)
	if err != nil {
		responses.InternalServerError(c, "Failed to check like")
		return
	}
	if liked {
		responses.Conflict(c, "You have already liked this comment")
		return
	}

	if err := pc.repo.CreateCommentLike(commentID, userID); err != nil {
		responses.InternalServerError(c, "Failed to like comment")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Comment liked", nil)
}

// UnlikeComment godoc
// @Summary Remove a like from a comment
// @Tags Posts
// @Produce json
// @Security BearerAuth
// @Param comment_id path int true "Comment ID"
// @Success 200 {object} responses.SuccessResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /posts/comments/{comment_id}/like [delete]
func (pc *PostController) UnlikeComment(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "Authentication required")
		return
	}
	commentID, err := parseIDParam(c, "comment_id")
	if err != nil {
		responses.BadRequest(c, "Invalid comment ID")
		return
	}

	liked, err := pc.repo.HasCommentLike(commentID, userID)
	if err != nil {
		responses.InternalServerError(c, "Failed to check like")
		return
	}
	if !liked {
		responses.NotFound(c, "Like")
		return
	}

	if err := pc.repo.DeleteCommentLike(commentID, userID); err != nil {
		responses.InternalServerError(c, "Failed to unlike comment")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Like removed", nil)
}

func parseIDParam(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	return uint(id), err
}
