package handlers

import (
	"context"
	"net/http"
	"net/mail"
	"regexp"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/roshan-ds-tech/shreshta-backend-final/database"
	"github.com/roshan-ds-tech/shreshta-backend-final/models"
	"github.com/roshan-ds-tech/shreshta-backend-final/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

var phonePattern = regexp.MustCompile(`^\+?\d{10,15}$`)

func SignUp(c echo.Context) error {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Phone    string `json:"phone"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}

	if req.Username == "" || req.Email == "" || req.Password == "" || req.Phone == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "All fields are required"})
	}
	if !isValidEmail(req.Email) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid email format"})
	}
	if !phonePattern.MatchString(req.Phone) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Enter a valid phone number with at least 10 digits"})
	}

	collection := database.DB.Collection("users")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := collection.FindOne(ctx, bson.M{"username": req.Username}).Err(); err == nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Username already exists"})
	}
	if err := collection.FindOne(ctx, bson.M{"email": req.Email}).Err(); err == nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Email already registered"})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to process password"})
	}

	user := models.User{
		ID:        primitive.NewObjectID(),
		Username:  req.Username,
		Email:     req.Email,
		Password:  string(hashedPassword),
		Phone:     req.Phone,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if _, err := collection.InsertOne(ctx, user); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create user"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "User registered successfully!"})
}

// Helper function to validate email format
func isValidEmail(email string) bool {
	_, err := mail.ParseAddress(email)
	return err == nil
}

func LoginUser(c echo.Context) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}

	collection := database.DB.Collection("users")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	err := collection.FindOne(ctx, bson.M{"username": req.Username}).Decode(&user)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid username or password"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid username or password"})
	}

	token, err := utils.GenerateJWT(user.Username)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to generate token"})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"message":       "Login successful",
		"username":      user.Username,
		"email":         user.Email,
		"phone":         user.Phone,
		"profile_image": user.ProfileImage,
		"token":         token,
	})
}

// GetProfile returns a user's profile by username query parameter.
func GetProfile(c echo.Context) error {
	username := c.QueryParam("username")
	if username == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Username parameter is required"})
	}

	var user models.User
	err := database.DB.Collection("users").FindOne(
		c.Request().Context(),
		bson.M{"username": username},
	).Decode(&user)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "User not found"})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"username":      user.Username,
		"email":         user.Email,
		"phone":         user.Phone,
		"profile_image": user.ProfileImage,
	})
}

// UpdateProfile updates email and/or phone for a user.
func UpdateProfile(c echo.Context) error {
	var req struct {
		Username string  `json:"username"`
		Email    *string `json:"email"`
		Phone    *string `json:"phone"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}
	if req.Username == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Username is required"})
	}

	set := bson.M{"updatedAt": time.Now()}
	if req.Email != nil {
		set["email"] = *req.Email
	}
	if req.Phone != nil {
		set["phone"] = *req.Phone
	}

	result, err := database.DB.Collection("users").UpdateOne(
		c.Request().Context(),
		bson.M{"username": req.Username},
		bson.M{"$set": set},
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update profile"})
	}
	if result.MatchedCount == 0 {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "User not found"})
	}

	var user models.User
	if err := database.DB.Collection("users").FindOne(
		c.Request().Context(),
		bson.M{"username": req.Username},
	).Decode(&user); err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "User not found"})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"username":      user.Username,
		"email":         user.Email,
		"phone":         user.Phone,
		"profile_image": user.ProfileImage,
	})
}
