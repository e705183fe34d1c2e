package handler

import (
	"errors"
	"net/http"

	"blogger-api/common"
	"blogger-api/logger"
	"blogger-api/model"
	"blogger-api/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type PostHandler struct {
	service *service.PostService
}

func NewPostHandler(service *service.PostService) *PostHandler {
	return &PostHandler{service: service}
}

// GetAll godoc
// @Summary      List posts
// @Tags         posts
// @Produce      json
// @Success      200  {array}   model.Post
// @Failure      401  {object}  common.AppError
// @Failure      403  {object}  common.AppError
// @Security     BearerAuth
// @Router       /api/v1/posts [get]
func (h *PostHandler) GetAll(w http.ResponseWriter, r *http.Request) *common.AppError {
	posts, err := h.service.GetPosts(r.Context())
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not retrieve posts", err)
	}
	if posts == nil {
		posts = []*model.Post{}
	}

	common.WriteJSON(w, http.StatusOK, posts)
	return nil
}

// Get godoc
// @Summary      Get a post
// @Tags         posts
// @Produce      json
// @Param        postId  path      string  true  "Post ID"
// @Success      200     {object}  model.Post
// @Failure      400     {object}  common.AppError
// @Failure      404     {object}  common.AppError
// @Security     BearerAuth
// @Router       /api/v1/posts/{postId} [get]
func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) *common.AppError {
	postID, appErr := postIDFromPath(r)
	if appErr != nil {
		return appErr
	}

	post, err := h.service.GetPostByID(r.Context(), postID)
	if err != nil {
		return postError(err, "Could not retrieve post")
	}

	common.WriteJSON(w, http.StatusOK, post)
	return nil
}

// Create godoc
// @Summary      Create a post
// @Description  Creates a post owned by the caller
// @Tags         posts
// @Accept       json
// @Produce      json
// @Param        request  body      model.CreatePostRequest  true  "Post"
// @Success      201      {object}  model.Post
// @Failure      400      {object}  common.AppError
// @Security     BearerAuth
// @Router       /api/v1/posts [post]
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.CreatePostRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid user ID in token", nil)
	}

	post, err := h.service.CreatePost(r.Context(), req.Name, userID)
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not create post", err)
	}

	logger.Log.WithFields(logrus.Fields{
		"user_id": userID,
		"post_id": post.ID,
	}).Info("Post created")

	w.Header().Set("Location", "/api/v1/posts/"+post.ID)
	common.WriteJSON(w, http.StatusCreated, post)
	return nil
}

// Update godoc
// @Summary      Rename a post
// @Description  Only the owner may update a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Param        postId   path      string                   true  "Post ID"
// @Param        request  body      model.UpdatePostRequest  true  "Post"
// @Success      200      {object}  model.Post
// @Failure      400      {object}  common.AppError
// @Failure      404      {object}  common.AppError
// @Security     BearerAuth
// @Router       /api/v1/posts/{postId} [put]
func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) *common.AppError {
	postID, appErr := postIDFromPath(r)
	if appErr != nil {
		return appErr
	}

	var req model.UpdatePostRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	if appErr := h.requireOwner(r, postID, "You are not allowed to update this post."); appErr != nil {
		return appErr
	}

	post, err := h.service.UpdatePost(r.Context(), postID, req.Name)
	if err != nil {
		return postError(err, "Could not update post")
	}

	common.WriteJSON(w, http.StatusOK, post)
	return nil
}

// Delete godoc
// @Summary      Delete a post
// @Description  Only the owner may delete a post
// @Tags         posts
// @Param        postId  path  string  true  "Post ID"
// @Success      204
// @Failure      400  {object}  common.AppError
// @Failure      404  {object}  common.AppError
// @Security     BearerAuth
// @Router       /api/v1/posts/{postId} [delete]
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) *common.AppError {
	postID, appErr := postIDFromPath(r)
	if appErr != nil {
		return appErr
	}

	if appErr := h.requireOwner(r, postID, "You are not allowed to delete this post."); appErr != nil {
		return appErr
	}

	if err := h.service.DeletePost(r.Context(), postID); err != nil {
		return postError(err, "Could not delete post")
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

// requireOwner returns 404 for a missing post and 400 with denied when the
// caller does not own it.
func (h *PostHandler) requireOwner(r *http.Request, postID, denied string) *common.AppError {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid user ID in token", nil)
	}

	owns, err := h.service.UserOwnsPost(r.Context(), postID, userID)
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not check post ownership", err)
	}
	if owns {
		return nil
	}

	if _, err := h.service.GetPostByID(r.Context(), postID); err != nil {
		return postError(err, "Could not retrieve post")
	}

	logger.Log.WithFields(logrus.Fields{
		"user_id": userID,
		"post_id": postID,
	}).Warn("Post ownership check failed")
	return common.NewAppError(http.StatusBadRequest, denied, nil)
}

func postIDFromPath(r *http.Request) (string, *common.AppError) {
	id, err := uuid.Parse(r.PathValue("postId"))
	if err != nil {
		return "", common.NewAppError(http.StatusBadRequest, "Invalid post ID", nil)
	}
	return id.String(), nil
}

func postError(err error, message string) *common.AppError {
	if errors.Is(err, service.ErrPostNotFound) {
		return common.NewAppError(http.StatusNotFound, "Post not found", nil)
	}
	return common.NewAppError(http.StatusInternalServerError, message, err)
}
