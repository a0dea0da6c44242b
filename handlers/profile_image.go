package handlers

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/roshan-ds-tech/shreshta-backend-final/database"
)

const profileImageDir = "media/profile_images"

// UploadProfileImage stores a user's profile image on disk and records its
// serving path on the user document. An existing image is replaced.
func UploadProfileImage(c echo.Context) error {
	username := c.FormValue("username")
	if username == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Username is required"})
	}

	file, err := c.FormFile("profile_image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Profile image file is required"})
	}

	collection := database.DB.Collection("users")
	var user struct {
		ProfileImage string `bson:"profileImage"`
	}
	if err := collection.FindOne(c.Request().Context(), bson.M{"username": username}).Decode(&user); err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "User not found"})
	}

	if err := os.MkdirAll(profileImageDir, 0o755); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to store image"})
	}

	src, err := file.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Failed to read uploaded file"})
	}
	defer src.Close()

	name := uuid.NewString() + filepath.Ext(file.Filename)
	path := filepath.Join(profileImageDir, name)
	dst, err := os.Create(path)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to store image"})
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to store image"})
	}

	// Drop the previous image, the document now points at the new one
	if user.ProfileImage != "" {
		_ = os.Remove(filepath.Join(".", user.ProfileImage))
	}

	imageURL := "/" + profileImageDir + "/" + name
	_, err = collection.UpdateOne(
		c.Request().Context(),
		bson.M{"username": username},
		bson.M{"$set": bson.M{"profileImage": imageURL, "updatedAt": time.Now()}},
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update profile"})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message":       "Profile image uploaded successfully",
		"profile_image": imageURL,
	})
}
