package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/performance-portal-api/internal/middleware"
	"github.com/noah-isme/performance-portal-api/internal/models"
	"github.com/noah-isme/performance-portal-api/internal/repository"
	appErrors "github.com/noah-isme/performance-portal-api/pkg/errors"
)

func claimsFromContext(c *gin.Context) (*models.JWTClaims, error) {
	claims := middleware.Claims(c)
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	return claims, nil
}

// ownBatchKey addresses the batch generated at the student's own login.
func ownBatchKey(c *gin.Context) (repository.BatchKey, error) {
	claims, err := claimsFromContext(c)
	if err != nil {
		return repository.BatchKey{}, err
	}
	if claims.Role != models.RoleStudent || claims.StudentID == "" {
		return repository.BatchKey{}, appErrors.Clone(appErrors.ErrForbidden, "only students have their own sessions")
	}
	return repository.BatchKey{LoginID: claims.LoginID(), StudentID: claims.StudentID}, nil
}

// managedBatchKey addresses the batch an administrator generated for the :id student.
func managedBatchKey(c *gin.Context) (repository.BatchKey, error) {
	claims, err := claimsFromContext(c)
	if err != nil {
		return repository.BatchKey{}, err
	}
	return repository.BatchKey{LoginID: claims.LoginID(), StudentID: c.Param("id")}, nil
}

func intParam(c *gin.Context, name string) (int, error) {
	value, err := strconv.Atoi(c.Param(name))
	if err != nil {
		return 0, appErrors.Clone(appErrors.ErrValidation, name+" must be an integer")
	}
	return value, nil
}
