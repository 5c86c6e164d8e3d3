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

type Book struct {
	Config           *config.Config
	BookService      service.IBookService
	StockpileService service.IStockpileService
}

func (b *Book) RegisterRouter(r gin.IRouter) {
	authorize := middleware.Auth([]byte(b.Config.Jwt.Secret))
	books := r.Group("/v1/books")
	{
		books.POST("", authorize, context.Wrap(b.CreateBook))
		books.GET("", context.Wrap(b.ListBooks))
		books.GET("/:id", context.Wrap(b.GetBook))
		books.GET("/:id/stockpile", context.Wrap(b.GetStockpile))
		books.GET("/:id/available", context.Wrap(b.GetAvailable))
		books.PUT("/:id/stockpile", authorize, context.Wrap(b.UpdateStockpile))
	}
}

func (b *Book) CreateBook(c *gin.Context) error {
	var req types.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.NewError(http.StatusBadRequest, "参数错误: "+err.Error())
	}

	book, err := b.BookService.CreateBook(c.Request.Context(), &req)
	if err != nil {
		return asBizError(err)
	}
	response.Success(c, book)
	return nil
}

func (b *Book) ListBooks(c *gin.Context) error {
	cursor, _ := strconv.ParseInt(c.Query("cursor"), 10, 64)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	resp, err := b.BookService.ListBooks(c.Request.Context(), cursor, limit)
	if err != nil {
		return asBizError(err)
	}
	response.Success(c, resp)
	return nil
}

func (b *Book) GetBook(c *gin.Context) error {
	bookID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return response.NewError(http.StatusBadRequest, "非法的图书ID")
	}

	detail, err := b.BookService.GetDetail(c.Request.Context(), bookID)
	if err != nil {
		return asBizError(err)
	}
	response.Success(c, detail)
	return nil
}

// GetStockpile 台账读口径，available 总是从权威行推导
func (b *Book) GetStockpile(c *gin.Context) error {
	bookID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return response.NewError(http.StatusBadRequest, "非法的图书ID")
	}

	sp, err := b.StockpileService.Get(c.Request.Context(), bookID)
	if err != nil {
		return asBizError(err)
	}
	response.Success(c, &types.StockpileView{
		BookID:    sp.BookID,
		Amount:    sp.Amount,
		Frozen:    sp.Frozen,
		Available: sp.Available(),
	})
	return nil
}

// GetAvailable 面向商品页的轻量读，走缓存
func (b *Book) GetAvailable(c *gin.Context) error {
	bookID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return response.NewError(http.StatusBadRequest, "非法的图书ID")
	}

	n, err := b.StockpileService.GetAvailable(c.Request.Context(), bookID)
	if err != nil {
		return asBizError(err)
	}
	response.Success(c, gin.H{"book_id": bookID, "available": n})
	return nil
}

func (b *Book) UpdateStockpile(c *gin.Context) error {
	bookID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return response.NewError(http.StatusBadRequest, "非法的图书ID")
	}

	var req types.UpdateStockpileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.NewError(http.StatusBadRequest, "参数错误: "+err.Error())
	}

	if err := b.StockpileService.SetAmount(c.Request.Context(), bookID, req.Amount); err != nil {
		return asBizError(err)
	}
	response.Success(c, nil)
	return nil
}
