package controllers

import (
	"net/http"
	"strconv"

	"github.com/caesariomj/jogjaelectrik-sub000/authz"
	"github.com/caesariomj/jogjaelectrik-sub000/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// requireActor pulls the authenticated actor out of the context, writing
// a 401 when the auth middleware did not run or the token had no subject.
func requireActor(ctx *gin.Context) (authz.Actor, bool) {
	actor, ok := middleware.GetActor(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return authz.Actor{}, false
	}
	return actor, true
}

// requireUserUUID is requireActor plus a parsed user id, for handlers that
// address storage by UUID directly.
func requireUserUUID(ctx *gin.Context) (uuid.UUID, bool) {
	actor, ok := requireActor(ctx)
	if !ok {
		return uuid.Nil, false
	}
	userID, err := uuid.Parse(actor.ID)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return uuid.Nil, false
	}
	return userID, true
}

// pathUUID parses a UUID path parameter, writing a 400 on garbage.
func pathUUID(ctx *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param(name))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}

// parsePaginationParams extracts and validates pagination parameters.
func parsePaginationParams(ctx *gin.Context) (int, int) {
	const MaxLimit = 100
	const DefaultPage = 1
	const DefaultLimit = 10

	page := ctx.DefaultQuery("page", "1")
	limit := ctx.DefaultQuery("limit", "10")

	pageInt := DefaultPage
	limitInt := DefaultLimit

	if p, err := strconv.Atoi(page); err == nil && p > 0 {
		pageInt = p
	}

	if l, err := strconv.Atoi(limit); err == nil && l > 0 {
		limitInt = l
		if limitInt > MaxLimit {
			limitInt = MaxLimit
		}
	}

	return pageInt, limitInt
}
