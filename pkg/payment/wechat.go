package payment

import (
	"context"
	"errors"
	"fmt"

	"BookHive/config"
	"BookHive/pkg/log"

	"github.com/wechatpay-apiv3/wechatpay-go/core"
	"github.com/wechatpay-apiv3/wechatpay-go/core/auth/verifiers"
	"github.com/wechatpay-apiv3/wechatpay-go/core/downloader"
	"github.com/wechatpay-apiv3/wechatpay-go/core/notify"
	"github.com/wechatpay-apiv3/wechatpay-go/core/option"
	"github.com/wechatpay-apiv3/wechatpay-go/services/payments"
	"github.com/wechatpay-apiv3/wechatpay-go/services/payments/jsapi"
	"github.com/wechatpay-apiv3/wechatpay-go/utils"
	"go.uber.org/zap"
)

var ErrGatewayUnavailable = errors.New("支付网关未初始化")

// WechatGateway 微信支付适配层：下单拿支付参数、回调验签、主动查单。
// 核心业务只经过这三个口径跟支付平台打交道。
type WechatGateway struct {
	cfg    *config.WechatPayConfig
	client *core.Client
}

func NewWechatGateway(wc *config.WechatPayConfig) *WechatGateway {
	if wc == nil {
		log.L.Warn("wechat pay config missing, gateway disabled")
		return nil
	}

	mchPrivateKey, err := utils.LoadPrivateKeyWithPath(wc.MchPrivateKeyPath)
	if err != nil {
		log.L.Error("load mch private key failed", zap.Error(err))
		return nil
	}

	opts := []core.ClientOption{
		option.WithWechatPayAutoAuthCipher(
			wc.MchID,
			wc.MchCertificateSerialNumber,
			mchPrivateKey,
			wc.MchAPIv3Key,
		),
	}
	client, err := core.NewClient(context.Background(), opts...)
	if err != nil {
		log.L.Error("new wechat pay client failed", zap.Error(err))
		return nil
	}

	return &WechatGateway{cfg: wc, client: client}
}

// Prepay jsapi 预下单，返回前端唤起支付所需的参数
func (g *WechatGateway) Prepay(ctx context.Context, orderSn, description string, amount int64, openid string) (*jsapi.PrepayWithRequestPaymentResponse, error) {
	if g == nil || g.client == nil {
		return nil, ErrGatewayUnavailable
	}

	svc := jsapi.JsapiApiService{Client: g.client}
	resp, _, err := svc.PrepayWithRequestPayment(ctx, jsapi.PrepayRequest{
		Appid:       core.String(g.cfg.AppID),
		Mchid:       core.String(g.cfg.MchID),
		Description: core.String(description),
		OutTradeNo:  core.String(orderSn),
		NotifyUrl:   core.String(g.cfg.NotifyURL),
		Amount: &jsapi.Amount{
			Total: core.Int64(amount),
		},
		Payer: &jsapi.Payer{
			Openid: core.String(openid),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("微信下单失败: %w", err)
	}
	return resp, nil
}

// NotifyHandler 回调验签处理器，验签失败的报文不会进入对账逻辑
func (g *WechatGateway) NotifyHandler() (*notify.Handler, error) {
	if g == nil {
		return nil, ErrGatewayUnavailable
	}
	certificateVisitor := downloader.MgrInstance().GetCertificateVisitor(g.cfg.MchID)
	return notify.NewRSANotifyHandler(g.cfg.MchAPIv3Key, verifiers.NewSHA256WithRSAVerifier(certificateVisitor))
}

// QueryByOutTradeNo 主动查单，给轮询兜底用
func (g *WechatGateway) QueryByOutTradeNo(ctx context.Context, outTradeNo string) (*payments.Transaction, error) {
	if g == nil || g.client == nil {
		return nil, ErrGatewayUnavailable
	}
	svc := jsapi.JsapiApiService{Client: g.client}
	resp, result, err := svc.QueryOrderByOutTradeNo(ctx, jsapi.QueryOrderByOutTradeNoRequest{
		OutTradeNo: core.String(outTradeNo),
		Mchid:      core.String(g.cfg.MchID),
	})
	if err != nil {
		log.L.Error("查询订单失败", zap.String("out_trade_no", outTradeNo), zap.Error(err))
		return nil, err
	}
	log.L.Info("查询订单成功", zap.String("out_trade_no", outTradeNo), zap.Int("status", result.Response.StatusCode))
	return resp, nil
}
