package model

import (
	"time"

	"github.com/google/uuid"
)

// User is the account aggregate. Favorites and reviews are embedded lists.
type User struct {
	ID              string           `json:"id" bson:"_id" gorm:"type:char(36);primaryKey"`
	Name            string           `json:"name" bson:"name" gorm:"size:255;not null"`
	Email           string           `json:"email" bson:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash    string           `json:"-" bson:"passwordHash" gorm:"size:255;not null"` // Never expose in JSON
	FavoriteRecipes []FavoriteRecipe `json:"favoriteRecipes" bson:"favoriteRecipes" gorm:"serializer:json;type:longtext"`
	ReviewRecipes   []Review         `json:"reviewRecipes" bson:"reviewRecipes" gorm:"serializer:json;type:longtext"`
	Status          bool             `json:"status" bson:"status" gorm:"not null;default:true;index"`
	CreatedAt       time.Time        `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt" bson:"updatedAt"`
}

// NewUser builds an active user with empty favorites and reviews.
func NewUser(name, email, passwordHash string) *User {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return &User{
		ID:              uuid.NewString(),
		Name:            name,
		Email:           email,
		PasswordHash:    passwordHash,
		FavoriteRecipes: []FavoriteRecipe{},
		ReviewRecipes:   []Review{},
		Status:          true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// FavoriteRecipe is a bookmark to an externally identified recipe.
type FavoriteRecipe struct {
	RecipeID    string `json:"recipeId" bson:"recipeId"`
	Title       string `json:"title" bson:"title"`
	RecipeImage string `json:"recipeImage,omitempty" bson:"recipeImage,omitempty"`
}

// HasFavorite reports whether recipeID is in the favorites list.
func (u *User) HasFavorite(recipeID string) bool {
	for _, fav := range u.FavoriteRecipes {
		if fav.RecipeID == recipeID {
			return true
		}
	}
	return false
}

// FindReview returns the user's review for recipeID, or nil.
func (u *User) FindReview(recipeID string) *Review {
	for i := range u.ReviewRecipes {
		if u.ReviewRecipes[i].RecipeID == recipeID {
			return &u.ReviewRecipes[i]
		}
	}
	return nil
}

// PutReview replaces the entry with the same recipe id or appends it.
func (u *User) PutReview(review Review) {
	for i := range u.ReviewRecipes {
		if u.ReviewRecipes[i].RecipeID == review.RecipeID {
			u.ReviewRecipes[i] = review
			return
		}
	}
	u.ReviewRecipes = append(u.ReviewRecipes, review)
}

// SafeUser is the credential-free projection carried in sessions.
type SafeUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// PublicUser is the profile returned to the account owner.
type PublicUser struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Status    bool      `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// Safe strips everything but identity fields.
func (u *User) Safe() *SafeUser {
	return &SafeUser{ID: u.ID, Email: u.Email, Name: u.Name}
}

// Public strips the password hash and embedded lists.
func (u *User) Public() *PublicUser {
	return &PublicUser{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
	}
}
