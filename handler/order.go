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

type Order struct {
	Config       *config.Config
	OrderService service.IOrderService
}

func (o *Order) RegisterRouter(r gin.IRouter) {
	authorize := middleware.Auth([]byte(o.Config.Jwt.Secret))
	order := r.Group("/v1/orders")
	order.Use(authorize)
	{
		order.POST("", context.Wrap(o.CreateOrder))
		order.GET("/list", context.Wrap(o.ListOrders))
		order.GET("/:id", context.Wrap(o.GetOrder))
		order.POST("/:id/cancel", context.Wrap(o.CancelOrder))
		order.POST("/:id/confirm", context.Wrap(o.ConfirmReceipt))
	}
}

func (o *Order) CreateOrder(c *gin.Context) error {
	userID, err := context.GetUserID(c)
	if err != nil {
		return response.NewError(http.StatusUnauthorized, err.Error())
	}

	var req types.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.NewError(http.StatusBadRequest, "参数错误: "+err.Error())
	}

	detail, err := o.OrderService.CreateOrder(c.Request.Context(), userID, &req)
	if err != nil {
		return asBizError(err)
	}
	response.Success(c, detail)
	return nil
}

func (o *Order) ListOrders(c *gin.Context) error {
	userID, err := context.GetUserID(c)
	if err != nil {
		return response.NewError(http.StatusUnauthorized, err.Error())
	}

	cursor, _ := strconv.ParseInt(c.Query("cursor"), 10, 64)
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	resp, err := o.OrderService.ListOrders(c.Request.Context(), userID, cursor, pageSize)
	if err != nil {
		return asBizError(err)
	}
	response.Success(c, resp)
	return nil
}

func (o *Order) GetOrder(c *gin.Context) error {
	userID, err := context.GetUserID(c)
	if err != nil {
		return response.NewError(http.StatusUnauthorized, err.Error())
	}

	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return response.NewError(http.StatusBadRequest, "非法的订单ID")
	}

	detail, err := o.OrderService.GetOrder(c.Request.Context(), userID, orderID)
	if err != nil {
		return asBizError(err)
	}
	response.Success(c, detail)
	return nil
}

func (o *Order) ConfirmReceipt(c *gin.Context) error {
	userID, err := context.GetUserID(c)
	if err != nil {
		return response.NewError(http.StatusUnauthorized, err.Error())
	}

	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return response.NewError(http.StatusBadRequest, "非法的订单ID")
	}

	if err := o.OrderService.ConfirmReceipt(c.Request.Context(), userID, orderID); err != nil {
		return asBizError(err)
	}
	response.Success(c, nil)
	return nil
}

func (o *Order) CancelOrder(c *gin.Context) error {
	userID, err := context.GetUserID(c)
	if err != nil {
		return response.NewError(http.StatusUnauthorized, err.Error())
	}

	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return response.NewError(http.StatusBadRequest, "非法的订单ID")
	}

	var req types.CancelOrderRequest
	_ = c.ShouldBindJSON(&req) // reason 可选

	if err := o.OrderService.CancelOrder(c.Request.Context(), userID, orderID, req.Reason); err != nil {
		return asBizError(err)
	}
	response.Success(c, nil)
	return nil
}
