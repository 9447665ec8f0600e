package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/tablefork/backend/internal/middleware"
	"github.com/pageza/tablefork/backend/internal/service"
	"github.com/pageza/tablefork/backend/internal/types"
)

type UserHandler struct {
	auth    *service.AuthService
	users   *service.UserService
	follows *service.FollowService
}

func NewUserHandler(auth *service.AuthService, users *service.UserService, follows *service.FollowService) *UserHandler {
	return &UserHandler{
		auth:    auth,
		users:   users,
		follows: follows,
	}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	authRequired := middleware.AuthMiddleware(h.auth)
	authOptional := middleware.OptionalAuthMiddleware(h.auth)

	users := router.Group("/users")
	{
		users.POST("", h.Register)
		users.GET("", authOptional, h.ListUsers)
		users.GET("/me", authRequired, h.Me)
		users.GET("/subscriptions", authRequired, h.Subscriptions)
		users.POST("/set_password", authRequired, h.SetPassword)
		users.GET("/:id", authOptional, h.GetUser)
		users.POST("/:id/subscribe", authRequired, h.Subscribe)
		users.DELETE("/:id/subscribe", authRequired, h.Unsubscribe)
	}
}

func (h *UserHandler) Register(c *gin.Context) {
	var req types.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view, err := h.auth.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, view)
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	limit := intQuery(c, "limit", defaultPageSize)
	offset := 0
	if page := intQuery(c, "page", 1); page > 1 {
		offset = (page - 1) * limit
	}

	views, err := h.users.List(c.Request.Context(), viewerID(c), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": views})
}

func (h *UserHandler) Me(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	view, err := h.users.Get(c.Request.Context(), nil, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	view, err := h.users.Get(c.Request.Context(), viewerID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *UserHandler) SetPassword(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req types.SetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.auth.SetPassword(c.Request.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "password set"})
}

func (h *UserHandler) Subscriptions(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	views, err := h.follows.Subscriptions(c.Request.Context(), userID, intQuery(c, "recipes_limit", 0))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"subscriptions": views})
}

func (h *UserHandler) Subscribe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	authorID, ok := pathID(c)
	if !ok {
		return
	}

	view, err := h.follows.Subscribe(c.Request.Context(), userID, authorID, intQuery(c, "recipes_limit", 0))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, view)
}

func (h *UserHandler) Unsubscribe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	authorID, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.follows.Unsubscribe(c.Request.Context(), userID, authorID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
