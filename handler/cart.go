package handler

import (
	"net/http"
	"strconv"

	"BookHive/config"
	"BookHive/middleware"
	"BookHive/pkg/context"
	"BookHive/pkg/response"
	"BookHive/service"
	"BookHive/types"

	"github.com/gin-gonic/gin"
)

type Cart struct {
	Config      *config.Config
	CartService service.ICartService
}

func (h *Cart) RegisterRouter(r gin.IRouter) {
	authorize := middleware.Auth([]byte(h.Config.Jwt.Secret))
	cart := r.Group("/v1/cart")
	cart.Use(authorize)
	{
		cart.POST("/items", context.Wrap(h.AddItem))
		cart.GET("/items", context.Wrap(h.ListItems))
		cart.DELETE("/items/:id", context.Wrap(h.RemoveItem))
	}
}

func (h *Cart) AddItem(c *gin.Context) error {
	userID, err := context.GetUserID(c)
	if err != nil {
		return response.NewError(http.StatusUnauthorized, err.Error())
	}

	var req types.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.NewError(http.StatusBadRequest, "参数错误: "+err.Error())
	}

	item, err := h.CartService.AddItem(c.Request.Context(), userID, &req)
	if err != nil {
		return asBizError(err)
	}
	response.Success(c, item)
	return nil
}

func (h *Cart) ListItems(c *gin.Context) error {
	userID, err := context.GetUserID(c)
	if err != nil {
		return response.NewError(http.StatusUnauthorized, err.Error())
	}

	items, err := h.CartService.ListItems(c.Request.Context(), userID)
	if err != nil {
		return asBizError(err)
	}
	response.Success(c, items)
	return nil
}

func (h *Cart) RemoveItem(c *gin.Context) error {
	userID, err := context.GetUserID(c)
	if err != nil {
		return response.NewError(http.StatusUnauthorized, err.Error())
	}

	itemID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return response.NewError(http.StatusBadRequest, "非法的条目ID")
	}

	if err := h.CartService.RemoveItem(c.Request.Context(), userID, itemID); err != nil {
		return asBizError(err)
	}
	response.Success(c, nil)
	return nil
}
