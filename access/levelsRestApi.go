package access

import (
	"membergate/bizerror"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// RegisterLevelsHandler wires the access-level admin surface. Reads are
// open (the portal needs level names for its denied listing); mutations sit
// behind the admin key.
func RegisterLevelsHandler(r *gin.Engine, adminKey string) {
	g := r.Group("/v1/access-levels")
	g.GET("", HandleQueryLevels)

	admin := r.Group("/v1/access-levels", AdminKeyFilter(adminKey))
	admin.POST("", HandleCreateLevel)
	admin.PUT(":ordinal", HandleUpdateLevel)
	admin.DELETE(":ordinal", HandleDeleteLevel)
}

func HandleQueryLevels(c *gin.Context) {
	levels, err := LoadLevelsFunc(c.Request.Context())
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, levels)
}

func HandleCreateLevel(c *gin.Context) {
	creation := AccessLevelCreation{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	level, err := CreateLevelFunc(c.Request.Context(), &creation)
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, level)
}

func HandleUpdateLevel(c *gin.Context) {
	ordinal, err := strconv.Atoi(c.Param("ordinal"))
	if err != nil || ordinal < 1 {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	update := AccessLevelCreation{}
	if err := c.ShouldBindBodyWith(&update, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	level, err := UpdateLevelFunc(c.Request.Context(), ordinal, &update)
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, level)
}

func HandleDeleteLevel(c *gin.Context) {
	ordinal, err := strconv.Atoi(c.Param("ordinal"))
	if err != nil || ordinal < 1 {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	if err := DeleteLevelFunc(c.Request.Context(), ordinal); err != nil {
		panic(err)
	}
	c.Status(http.StatusNoContent)
}
