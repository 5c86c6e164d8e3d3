package handler

import (
	"net/http"

	"BookHive/config"
	"BookHive/middleware"
	"BookHive/pkg/context"
	"BookHive/pkg/log"
	"BookHive/pkg/payment"
	"BookHive/pkg/response"
	"BookHive/service"
	"BookHive/types"

	"github.com/gin-gonic/gin"
	"github.com/wechatpay-apiv3/wechatpay-go/services/payments"
	"go.uber.org/zap"
)

type Pay struct {
	Config     *config.Config
	Gateway    *payment.WechatGateway
	PayService service.IPayService
}

func (p *Pay) RegisterRouter(r gin.IRouter) {
	authorize := middleware.Auth([]byte(p.Config.Jwt.Secret))
	pay := r.Group("/v1/pay")
	{
		pay.POST("/prepay", authorize, context.Wrap(p.Prepay))
		pay.POST("/notify", context.Wrap(p.PayNotify))
		pay.GET("/query/:order_sn", authorize, context.Wrap(p.QueryOrder))
	}
}

func (p *Pay) Prepay(c *gin.Context) error {
	userID, err := context.GetUserID(c)
	if err != nil {
		return response.NewError(http.StatusUnauthorized, err.Error())
	}
	openid := c.GetString(context.CtxOpenID)

	var req types.PrepayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.NewError(http.StatusBadRequest, "参数错误: "+err.Error())
	}

	resp, err := p.PayService.InitiatePayment(c.Request.Context(), userID, openid, &req)
	if err != nil {
		return asBizError(err)
	}
	response.Success(c, resp)
	return nil
}

// PayNotify 微信支付结果回调。验签不过的报文直接拒绝，不触碰任何订单状态。
func (p *Pay) PayNotify(c *gin.Context) error {
	notifyHandler, err := p.Gateway.NotifyHandler()
	if err != nil {
		log.L.Error("获取回调验签器失败", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"code": "FAIL", "message": "handler unavailable"})
		return nil
	}

	transaction := new(payments.Transaction)
	if _, err := notifyHandler.ParseNotifyRequest(c.Request.Context(), c.Request, transaction); err != nil {
		log.L.Warn("回调验签失败", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"code": "FAIL", "message": "签名验证失败"})
		return nil
	}

	if err := p.PayService.ProcessPaymentNotify(c.Request.Context(), transaction); err != nil {
		log.L.Error("处理支付回调失败",
			zap.Stringp("out_trade_no", transaction.OutTradeNo), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"code": "FAIL", "message": "处理失败"})
		return nil
	}

	c.JSON(http.StatusOK, gin.H{"code": "SUCCESS", "message": "成功"})
	return nil
}

// QueryOrder 主动向支付平台查单，给前端轮询兜底
func (p *Pay) QueryOrder(c *gin.Context) error {
	orderSn := c.Param("order_sn")
	if orderSn == "" {
		return response.NewError(http.StatusBadRequest, "order_sn 不能为空")
	}

	transaction, err := p.Gateway.QueryByOutTradeNo(c.Request.Context(), orderSn)
	if err != nil {
		return asBizError(err)
	}
	response.Success(c, transaction)
	return nil
}
