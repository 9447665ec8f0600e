package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/tablefork/backend/internal/middleware"
	"github.com/pageza/tablefork/backend/internal/service"
	"github.com/pageza/tablefork/backend/internal/types"
)

const defaultPageSize = 10

type RecipeHandler struct {
	recipes      *service.RecipeService
	memberships  *service.MembershipService
	shoppingList *service.ShoppingListService
	validator    middleware.TokenValidator
	writeLimiter *middleware.RateLimiter
}

func NewRecipeHandler(
	recipes *service.RecipeService,
	memberships *service.MembershipService,
	shoppingList *service.ShoppingListService,
	validator middleware.TokenValidator,
	writeLimiter *middleware.RateLimiter,
) *RecipeHandler {
	return &RecipeHandler{
		recipes:      recipes,
		memberships:  memberships,
		shoppingList: shoppingList,
		validator:    validator,
		writeLimiter: writeLimiter,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	authRequired := middleware.AuthMiddleware(h.validator)
	authOptional := middleware.OptionalAuthMiddleware(h.validator)

	write := []gin.HandlerFunc{authRequired}
	if h.writeLimiter != nil {
		write = append(write, h.writeLimiter.RateLimitMiddleware())
	}

	recipes := router.Group("/recipes")
	{
		recipes.GET("", authOptional, h.ListRecipes)
		recipes.GET("/download_shopping_cart", authRequired, h.DownloadShoppingCart)
		recipes.GET("/:id", authOptional, h.GetRecipe)
		recipes.POST("", append(write, h.CreateRecipe)...)
		recipes.PATCH("/:id", append(write, h.UpdateRecipe)...)
		recipes.DELETE("/:id", authRequired, h.DeleteRecipe)
		recipes.POST("/:id/favorite", authRequired, h.addMembership(service.SetFavorite))
		recipes.DELETE("/:id/favorite", authRequired, h.removeMembership(service.SetFavorite))
		recipes.POST("/:id/shopping_cart", authRequired, h.addMembership(service.SetCart))
		recipes.DELETE("/:id/shopping_cart", authRequired, h.removeMembership(service.SetCart))
	}
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	filter := types.RecipeFilter{
		TagSlugs:         c.QueryArray("tags"),
		IsFavorited:      c.Query("is_favorited") == "1",
		IsInShoppingCart: c.Query("is_in_shopping_cart") == "1",
	}

	if author := c.Query("author"); author != "" {
		authorID, err := uuid.Parse(author)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid author id"})
			return
		}
		filter.Author = &authorID
	}

	filter.Limit = intQuery(c, "limit", defaultPageSize)
	page := intQuery(c, "page", 1)
	if page > 1 {
		filter.Offset = (page - 1) * filter.Limit
	}

	views, err := h.recipes.List(c.Request.Context(), viewerID(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipes": views})
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	view, err := h.recipes.Get(c.Request.Context(), viewerID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req types.CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view, err := h.recipes.Create(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, view)
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req types.UpdateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view, err := h.recipes.Update(c.Request.Context(), userID, id, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.recipes.Delete(c.Request.Context(), userID, id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) addMembership(kind service.MembershipKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		id, ok := pathID(c)
		if !ok {
			return
		}

		view, err := h.memberships.Add(c.Request.Context(), kind, userID, id)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusCreated, view)
	}
}

func (h *RecipeHandler) removeMembership(kind service.MembershipKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		id, ok := pathID(c)
		if !ok {
			return
		}

		if err := h.memberships.Remove(c.Request.Context(), kind, userID, id); err != nil {
			respondError(c, err)
			return
		}

		c.Status(http.StatusNoContent)
	}
}

func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	items, err := h.shoppingList.Build(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	username := c.GetString("username")
	filename := service.ShoppingListFilename(username)
	body := service.RenderShoppingList(items)

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(body))
}

func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val < 1 {
		return fallback
	}
	return val
}
