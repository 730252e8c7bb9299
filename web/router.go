package web

import (
	"os"
	"strings"

	"bitbucket.org/vyaparsoft/backoffice_backend/billing"
	"bitbucket.org/vyaparsoft/backoffice_backend/customers"
	"bitbucket.org/vyaparsoft/backoffice_backend/inventory"
	"bitbucket.org/vyaparsoft/backoffice_backend/purchases"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Handlers bundles the services the HTTP layer dispatches to.
type Handlers struct {
	DB          *gorm.DB
	Log         *logrus.Logger
	Coordinator *billing.Coordinator
	Inventory   *inventory.Service
	Customers   *customers.Service
	Purchases   *purchases.Service
}

// NewRouter builds the gin engine with CORS, recovery and all routes.
func NewRouter(h *Handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	allowedOrigins := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS"))
	if strings.EqualFold(strings.TrimSpace(os.Getenv("GO_ENV")), "production") {
		if allowedOrigins == "" {
			corsConfig.AllowOrigins = []string{}
		} else {
			corsConfig.AllowOrigins = splitAndTrim(allowedOrigins)
		}
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AddAllowMethods("GET", "POST", "PUT", "DELETE", "OPTIONS")
	corsConfig.AddAllowHeaders("Origin", "Content-Type", "Accept", "Authorization")
	corsConfig.AddExposeHeaders("Content-Length", "Content-Disposition")
	r.Use(cors.New(corsConfig))

	r.GET("/healthz", func(c *gin.Context) { c.Status(204) })

	api := r.Group("/api")
	{
		bills := api.Group("/bills")
		bills.GET("", h.listBills)
		bills.POST("", h.createBill)
		bills.GET("/export", h.exportBills)
		bills.GET("/:id", h.getBill)
		bills.PUT("/:id", h.updateBill)
		bills.DELETE("/:id", h.deleteBill)
		bills.POST("/bulk-delete", h.bulkDeleteBills)

		products := api.Group("/inventory")
		products.GET("", h.listProducts)
		products.POST("", h.createProduct)
		products.GET("/:id", h.getProduct)
		products.PUT("/:id", h.updateProduct)
		products.DELETE("/:id", h.deleteProduct)
		products.POST("/bulk-delete", h.bulkDeleteProducts)

		cust := api.Group("/customers")
		cust.GET("", h.listCustomers)
		cust.POST("", h.createCustomer)
		cust.GET("/:id", h.getCustomer)
		cust.PUT("/:id", h.updateCustomer)
		cust.DELETE("/:id", h.deleteCustomer)

		purch := api.Group("/purchases")
		purch.GET("", h.listPurchases)
		purch.POST("", h.recordPurchase)
		purch.DELETE("/:id", h.deletePurchase)

		api.GET("/seller", h.getSellerInfo)
		api.PUT("/seller", h.updateSellerInfo)
	}

	return r
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}
