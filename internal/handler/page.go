package handler

import (
	"github.com/bankpoc/banking-ui/internal/command"
	"github.com/bankpoc/banking-ui/shared/models"
	"github.com/gin-gonic/gin"
)

// FlashCookie carries a success notice across the post-submit redirect.
const FlashCookie = "banking_flash"

// Notice is the banner shown at the top of a page.
type Notice struct {
	Success bool
	Message string
}

// page holds what the shared header needs.
type page struct {
	Title  string
	User   *models.User
	Notice *Notice
}

type loginPage struct {
	page
	Username string
	Error    string
}

type customerPage struct {
	page
	Card       *models.CardInfo
	History    []models.TransactionHistory
	DialogOpen bool
	Form       command.TransactionForm
}

type adminPage struct {
	page
	Stats        models.TransactionStats
	Transactions []models.TransactionHistory
	Search       string
}

func setFlash(c *gin.Context, message string, secure bool) {
	c.SetCookie(FlashCookie, message, 60, "/", "", secure, true)
}

// takeFlash reads and clears the flash notice.
func takeFlash(c *gin.Context, secure bool) *Notice {
	message, err := c.Cookie(FlashCookie)
	if err != nil || message == "" {
		return nil
	}
	c.SetCookie(FlashCookie, "", -1, "/", "", secure, true)
	return &Notice{Success: true, Message: message}
}
