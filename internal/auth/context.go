package auth

import "github.com/gin-gonic/gin"

func getString(c *gin.Context, key string) string {
	if v, ok := c.Get(key); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// GetUserID returns the authenticated user's ID or empty string.
func GetUserID(c *gin.Context) string {
	return getString(c, "userID")
}

// GetUserName returns the authenticated user's display name or empty string.
func GetUserName(c *gin.Context) string {
	return getString(c, "userName")
}

// GetUserRole returns the authenticated user's role or empty string.
func GetUserRole(c *gin.Context) string {
	return getString(c, "userRole")
}

// GetUserDepartment returns the authenticated user's department id or empty string.
func GetUserDepartment(c *gin.Context) string {
	return getString(c, "userDepartment")
}
