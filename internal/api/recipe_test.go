package api_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/tablefork/backend/internal/testhelpers"
	"github.com/pageza/tablefork/backend/internal/types"
)

func TestRecipeLifecycle(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin(t, "chef")

	flour := testhelpers.CreateTestIngredient(t, env.db, "flour", "g")
	dinner := testhelpers.CreateTestTag(t, env.db, "Dinner", "dinner", "#8775D2")

	body := types.CreateRecipeRequest{
		Name:        "Bread",
		Image:       "data:image/png;base64,aGk=",
		Text:        "Knead and bake.",
		CookingTime: 90,
		Ingredients: []types.IngredientLine{{ID: flour.ID, Amount: 500}},
		Tags:        []uuid.UUID{dinner.ID},
	}

	w := env.do(t, http.MethodPost, "/api/v1/recipes", token, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created types.RecipeView
	decode(t, w, &created)
	assert.Equal(t, "Bread", created.Name)
	assert.Equal(t, "chef", created.Author.Username)
	require.Len(t, created.Ingredients, 1)
	assert.Equal(t, "flour", created.Ingredients[0].Name)
	assert.Equal(t, 500, created.Ingredients[0].Amount)

	// Anonymous read.
	w = env.do(t, http.MethodGet, "/api/v1/recipes/"+created.ID.String(), "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Partial update keeps the image when the field is omitted.
	w = env.do(t, http.MethodPatch, "/api/v1/recipes/"+created.ID.String(), token, types.UpdateRecipeRequest{
		Name:        "Sourdough",
		Text:        body.Text,
		CookingTime: body.CookingTime,
		Ingredients: body.Ingredients,
		Tags:        body.Tags,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var updated types.RecipeView
	decode(t, w, &updated)
	assert.Equal(t, "Sourdough", updated.Name)
	assert.Equal(t, created.Image, updated.Image)

	w = env.do(t, http.MethodDelete, "/api/v1/recipes/"+created.ID.String(), token, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/recipes/"+created.ID.String(), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRecipeWriteRequiresAuth(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/recipes", "", types.CreateRecipeRequest{})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodDelete, "/api/v1/recipes/"+uuid.NewString(), "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRecipeUpdateByNonAuthor(t *testing.T) {
	env := newTestEnv(t)
	authorToken := env.registerAndLogin(t, "author")
	otherToken := env.registerAndLogin(t, "other")

	flour := testhelpers.CreateTestIngredient(t, env.db, "flour", "g")
	dinner := testhelpers.CreateTestTag(t, env.db, "Dinner", "dinner", "#8775D2")

	req := types.CreateRecipeRequest{
		Name:        "Bread",
		Image:       "data:image/png;base64,aGk=",
		Text:        "Knead and bake.",
		CookingTime: 90,
		Ingredients: []types.IngredientLine{{ID: flour.ID, Amount: 500}},
		Tags:        []uuid.UUID{dinner.ID},
	}

	w := env.do(t, http.MethodPost, "/api/v1/recipes", authorToken, req)
	require.Equal(t, http.StatusCreated, w.Code)
	var created types.RecipeView
	decode(t, w, &created)

	w = env.do(t, http.MethodPatch, "/api/v1/recipes/"+created.ID.String(), otherToken, types.UpdateRecipeRequest{
		Name:        "Hijacked",
		Text:        "nope",
		CookingTime: 1,
		Ingredients: req.Ingredients,
		Tags:        req.Tags,
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodDelete, "/api/v1/recipes/"+created.ID.String(), otherToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestFavoriteAndShoppingCartFlow(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin(t, "reader")

	author := testhelpers.CreateTestUser(t, env.db, "author")
	flour := testhelpers.CreateTestIngredient(t, env.db, "flour", "g")
	recipe := testhelpers.CreateTestRecipe(t, env.db, author.ID, "Bread", flour, 500, nil)
	base := "/api/v1/recipes/" + recipe.ID.String()

	w := env.do(t, http.MethodPost, base+"/favorite", token, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var short types.ShortRecipeView
	decode(t, w, &short)
	assert.Equal(t, recipe.ID, short.ID)
	assert.Equal(t, "Bread", short.Name)

	// Duplicate add is a client error.
	w = env.do(t, http.MethodPost, base+"/favorite", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodDelete, base+"/favorite", token, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(t, http.MethodDelete, base+"/favorite", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, base+"/shopping_cart", token, nil)
	require.Equal(t, http.StatusCreated, w.Code)
}

func TestDownloadShoppingCart(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin(t, "reader")

	// Empty cart first.
	w := env.do(t, http.MethodGet, "/api/v1/recipes/download_shopping_cart", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	author := testhelpers.CreateTestUser(t, env.db, "author")
	flour := testhelpers.CreateTestIngredient(t, env.db, "flour", "g")
	recipe := testhelpers.CreateTestRecipe(t, env.db, author.ID, "Bread", flour, 500, nil)

	w = env.do(t, http.MethodPost, "/api/v1/recipes/"+recipe.ID.String()+"/shopping_cart", token, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/recipes/download_shopping_cart", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=reader_shopping_list.txt", w.Header().Get("Content-Disposition"))
	assert.Equal(t, "Shopping list\n\n- flour (g) - 500", w.Body.String())
}

func TestListRecipesPaginationAndTagFilter(t *testing.T) {
	env := newTestEnv(t)

	author := testhelpers.CreateTestUser(t, env.db, "author")
	flour := testhelpers.CreateTestIngredient(t, env.db, "flour", "g")
	dinner := testhelpers.CreateTestTag(t, env.db, "Dinner", "dinner", "#8775D2")

	for i := 0; i < 3; i++ {
		tag := dinner
		if i == 2 {
			tag = nil
		}
		testhelpers.CreateTestRecipe(t, env.db, author.ID, fmt.Sprintf("Dish %d", i), flour, 100, tag)
	}

	var listing struct {
		Recipes []types.RecipeView `json:"recipes"`
	}

	w := env.do(t, http.MethodGet, "/api/v1/recipes?limit=2", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &listing)
	assert.Len(t, listing.Recipes, 2)

	w = env.do(t, http.MethodGet, "/api/v1/recipes?tags=dinner", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &listing)
	assert.Len(t, listing.Recipes, 2)
}
