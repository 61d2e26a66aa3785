package api

import (
	"fmt"

	"github.com/foodgram-project/backend/internal/model"
	"github.com/foodgram-project/backend/internal/service"
)

// Read and write shapes are deliberately separate types: the write
// payload takes ingredient lines as {id, amount} pairs and tag ids,
// while the read payload nests full objects and carries the
// server-computed per-viewer booleans.

// UserResponse is the read shape for users.
type UserResponse struct {
	Email        string `json:"email"`
	ID           uint   `json:"id"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	IsSubscribed bool   `json:"is_subscribed"`
	Avatar       string `json:"avatar"`
}

func NewUserResponse(u model.User, subscribed bool) UserResponse {
	return UserResponse{
		Email:        u.Email,
		ID:           u.ID,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: subscribed,
		Avatar:       u.AvatarURL,
	}
}

// UserWithRecipesResponse extends the user shape with a recipe
// preview, used by the subscription endpoints.
type UserWithRecipesResponse struct {
	UserResponse
	Recipes      []RecipeSimpleResponse `json:"recipes"`
	RecipesCount int64                  `json:"recipes_count"`
}

func NewUserWithRecipesResponse(u model.User, subscribed bool, recipes []model.Recipe, count int64) UserWithRecipesResponse {
	preview := make([]RecipeSimpleResponse, len(recipes))
	for i, r := range recipes {
		preview[i] = NewRecipeSimpleResponse(r)
	}
	return UserWithRecipesResponse{
		UserResponse: NewUserResponse(u, subscribed),
		Recipes:      preview,
		RecipesCount: count,
	}
}

// TagResponse is the read shape for tags.
type TagResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// IngredientResponse is the read shape for catalog ingredients.
type IngredientResponse struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

// RecipeIngredientResponse is one nested ingredient line of a recipe.
type RecipeIngredientResponse struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

// RecipeResponse is the full read shape for recipes.
type RecipeResponse struct {
	ID               uint                       `json:"id"`
	Tags             []TagResponse              `json:"tags"`
	Author           UserResponse               `json:"author"`
	Ingredients      []RecipeIngredientResponse `json:"ingredients"`
	IsFavorited      bool                       `json:"is_favorited"`
	IsInShoppingCart bool                       `json:"is_in_shopping_cart"`
	Name             string                     `json:"name"`
	Image            string                     `json:"image"`
	Text             string                     `json:"text"`
	CookingTime      int                        `json:"cooking_time"`
}

func NewRecipeResponse(r model.Recipe, favorited, inCart, authorSubscribed bool) RecipeResponse {
	tags := make([]TagResponse, len(r.Tags))
	for i, t := range r.Tags {
		tags[i] = TagResponse{ID: t.ID, Name: t.Name, Slug: t.Slug}
	}

	ingredients := make([]RecipeIngredientResponse, len(r.Ingredients))
	for i, line := range r.Ingredients {
		ingredients[i] = RecipeIngredientResponse{
			ID:              line.IngredientID,
			Name:            line.Ingredient.Name,
			MeasurementUnit: line.Ingredient.MeasurementUnit,
			Amount:          line.Amount,
		}
	}

	return RecipeResponse{
		ID:               r.ID,
		Tags:             tags,
		Author:           NewUserResponse(r.Author, authorSubscribed),
		Ingredients:      ingredients,
		IsFavorited:      favorited,
		IsInShoppingCart: inCart,
		Name:             r.Name,
		Image:            r.ImageURL,
		Text:             r.Text,
		CookingTime:      r.CookingTime,
	}
}

// RecipeSimpleResponse is the compact recipe shape returned by the
// favorite/cart endpoints and subscription previews.
type RecipeSimpleResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

func NewRecipeSimpleResponse(r model.Recipe) RecipeSimpleResponse {
	return RecipeSimpleResponse{
		ID:          r.ID,
		Name:        r.Name,
		Image:       r.ImageURL,
		CookingTime: r.CookingTime,
	}
}

// IngredientAmountRequest is one {id, amount} pair of a write payload.
type IngredientAmountRequest struct {
	ID     *uint `json:"id"`
	Amount *int  `json:"amount"`
}

// RecipeWriteRequest is the write shape for create and update. All
// fields are pointers so validation can distinguish absent from empty.
type RecipeWriteRequest struct {
	Name        *string                    `json:"name"`
	Text        *string                    `json:"text"`
	CookingTime *int                       `json:"cooking_time"`
	Image       *string                    `json:"image"`
	Tags        *[]uint                    `json:"tags"`
	Ingredients *[]IngredientAmountRequest `json:"ingredients"`
}

const requiredMsg = "This field is required."

// requiredWriteFields must all be present even on partial update; the
// update is only partial with respect to fields outside this list
// (currently just the image).
var requiredWriteFields = []string{"ingredients", "tags", "name", "text", "cooking_time"}

// Validate checks the payload and converts it into a service input.
// For partial updates the jointly-required field set is still
// enforced; only the image may be omitted.
func (r *RecipeWriteRequest) Validate(partial bool) (service.RecipeInput, map[string][]string) {
	errs := make(map[string][]string)

	present := map[string]bool{
		"ingredients":  r.Ingredients != nil,
		"tags":         r.Tags != nil,
		"name":         r.Name != nil,
		"text":         r.Text != nil,
		"cooking_time": r.CookingTime != nil,
	}
	for _, field := range requiredWriteFields {
		if !present[field] {
			errs[field] = append(errs[field], requiredMsg)
		}
	}
	if !partial && r.Image == nil {
		errs["image"] = append(errs["image"], requiredMsg)
	}
	if len(errs) > 0 {
		return service.RecipeInput{}, errs
	}

	var in service.RecipeInput
	in.Name = *r.Name
	in.Text = *r.Text
	in.CookingTime = *r.CookingTime

	if in.Name == "" || len(in.Name) > model.MaxNameLength {
		errs["name"] = append(errs["name"],
			fmt.Sprintf("Name must be between 1 and %d characters.", model.MaxNameLength))
	}
	if in.Text == "" {
		errs["text"] = append(errs["text"], "Text must not be empty.")
	}
	if in.CookingTime < model.MinCookingTime || in.CookingTime > model.MaxCookingTime {
		errs["cooking_time"] = append(errs["cooking_time"],
			fmt.Sprintf("Cooking time must be between %d and %d.", model.MinCookingTime, model.MaxCookingTime))
	}

	if r.Image != nil {
		if !service.ValidImageDataURI(*r.Image) {
			errs["image"] = append(errs["image"],
				"Image must be a base64 data URI of an allowed format.")
		} else {
			in.Image = *r.Image
		}
	}

	tags := *r.Tags
	if len(tags) == 0 {
		errs["tags"] = append(errs["tags"], "At least one tag is required.")
	}
	seenTags := make(map[uint]bool, len(tags))
	for _, id := range tags {
		if seenTags[id] {
			errs["tags"] = append(errs["tags"], "Duplicate tag ids are not allowed.")
			break
		}
		seenTags[id] = true
	}
	in.TagIDs = tags

	lines := *r.Ingredients
	if len(lines) == 0 {
		errs["ingredients"] = append(errs["ingredients"], "At least one ingredient is required.")
	}
	seenIngredients := make(map[uint]bool, len(lines))
	for _, line := range lines {
		if line.ID == nil || line.Amount == nil {
			errs["ingredients"] = append(errs["ingredients"],
				"Each ingredient needs an id and an amount.")
			continue
		}
		if seenIngredients[*line.ID] {
			errs["ingredients"] = append(errs["ingredients"],
				"Duplicate ingredient ids are not allowed.")
			continue
		}
		seenIngredients[*line.ID] = true
		if *line.Amount < model.MinIngredientAmount || *line.Amount > model.MaxIngredientAmount {
			errs["ingredients"] = append(errs["ingredients"],
				fmt.Sprintf("Amount must be between %d and %d.", model.MinIngredientAmount, model.MaxIngredientAmount))
			continue
		}
		in.Ingredients = append(in.Ingredients, service.IngredientAmount{ID: *line.ID, Amount: *line.Amount})
	}

	if len(errs) > 0 {
		return service.RecipeInput{}, errs
	}
	return in, nil
}
