// controllers/notification.go
package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"brandflow-backend/config"
	"brandflow-backend/models"
	"brandflow-backend/services"
	"brandflow-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationController struct {
	Gateway   services.MessageGateway
	Scheduler *services.Scheduler
	Logs      *services.DispatchLogStore
}

// SettingInput defines the create-or-replace JSON structure
type SettingInput struct {
	Address  string `json:"address" binding:"required"`
	LeadDays int    `json:"leadDays" binding:"required,min=1,max=30"`
	NotifyAt string `json:"notifyAt" binding:"required"`
	Enabled  *bool  `json:"enabled"`
}

// SettingUpdateInput defines the partial update JSON structure
type SettingUpdateInput struct {
	Address  *string `json:"address"`
	LeadDays *int    `json:"leadDays" binding:"omitempty,min=1,max=30"`
	NotifyAt *string `json:"notifyAt"`
	Enabled  *bool   `json:"enabled"`
}

type TestMessageInput struct {
	Message string `json:"message" binding:"required"`
}

func currentUser(c *gin.Context) (*models.User, bool) {
	raw, exists := c.Get("userId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return nil, false
	}

	id, ok := raw.(string)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "Invalid user ID in context")
		return nil, false
	}

	userUUID, err := uuid.Parse(id)
	if err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, "Invalid user ID format")
		return nil, false
	}

	var user models.User
	if err := config.DB.First(&user, "id = ?", userUUID).Error; err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, "User not found")
		return nil, false
	}

	if !user.IsActive {
		utils.RespondWithError(c, http.StatusForbidden, "User account is inactive")
		return nil, false
	}

	return &user, true
}

// GetMySetting returns the caller's notification setting
func (n *NotificationController) GetMySetting(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var setting models.NotificationSetting
	if err := config.DB.Where("user_id = ?", user.ID).First(&setting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.Status(http.StatusNoContent)
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, setting)
}

// UpsertMySetting creates or replaces the caller's notification setting. The
// address is probed against the gateway before it is accepted.
func (n *NotificationController) UpsertMySetting(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var input SettingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if !utils.ValidatePhone(input.Address) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid delivery address format")
		return
	}
	if !utils.ValidateClockTime(input.NotifyAt) {
		utils.RespondWithError(c, http.StatusBadRequest, "Notification time must be HH:MM between 00:00 and 23:59")
		return
	}

	if err := n.Gateway.Probe(input.Address); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Address verification failed: "+err.Error())
		return
	}

	enabled := true
	if input.Enabled != nil {
		enabled = *input.Enabled
	}

	var setting models.NotificationSetting
	err := config.DB.Where("user_id = ?", user.ID).First(&setting).Error
	switch {
	case err == nil:
		setting.Address = input.Address
		setting.LeadDays = input.LeadDays
		setting.NotifyAt = input.NotifyAt
		setting.Enabled = enabled
		if err := config.DB.Save(&setting).Error; err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update setting")
			return
		}
		c.JSON(http.StatusOK, setting)

	case errors.Is(err, gorm.ErrRecordNotFound):
		setting = models.NotificationSetting{
			UserID:   user.ID,
			Address:  input.Address,
			LeadDays: input.LeadDays,
			NotifyAt: input.NotifyAt,
			Enabled:  enabled,
		}
		if err := config.DB.Create(&setting).Error; err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create setting")
			return
		}
		c.JSON(http.StatusCreated, setting)

	default:
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
	}
}

// UpdateMySetting applies a partial update to the caller's setting
func (n *NotificationController) UpdateMySetting(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var input SettingUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var setting models.NotificationSetting
	if err := config.DB.Where("user_id = ?", user.ID).First(&setting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Notification setting not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Address != nil && *input.Address != setting.Address {
		if !utils.ValidatePhone(*input.Address) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid delivery address format")
			return
		}
		if err := n.Gateway.Probe(*input.Address); err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Address verification failed: "+err.Error())
			return
		}
		setting.Address = *input.Address
	}
	if input.NotifyAt != nil {
		if !utils.ValidateClockTime(*input.NotifyAt) {
			utils.RespondWithError(c, http.StatusBadRequest, "Notification time must be HH:MM between 00:00 and 23:59")
			return
		}
		setting.NotifyAt = *input.NotifyAt
	}
	if input.LeadDays != nil {
		if !utils.ValidateLeadDays(*input.LeadDays) {
			utils.RespondWithError(c, http.StatusBadRequest, "Lead days must be between 1 and 30")
			return
		}
		setting.LeadDays = *input.LeadDays
	}
	if input.Enabled != nil {
		setting.Enabled = *input.Enabled
	}

	if err := config.DB.Save(&setting).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update setting")
		return
	}

	c.JSON(http.StatusOK, setting)
}

// DeleteMySetting removes the caller's setting (explicit opt-out). The
// dispatch log history is retained.
func (n *NotificationController) DeleteMySetting(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	result := config.DB.Where("user_id = ?", user.ID).Delete(&models.NotificationSetting{})
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete setting")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Notification setting not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification setting deleted; delivery history is retained"})
}

// SendTest delivers a free-text message immediately, bypassing the window and
// dedup logic. The outcome is mirrored back to the caller.
func (n *NotificationController) SendTest(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var input TestMessageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var setting models.NotificationSetting
	if err := config.DB.Where("user_id = ?", user.ID).First(&setting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Register a notification setting first")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if !setting.Enabled {
		utils.RespondWithError(c, http.StatusBadRequest, "Notifications are disabled for this account")
		return
	}

	providerID, sendErr := n.Gateway.Send(setting.Address, input.Message)

	entry := &models.NotificationLog{
		UserID:  user.ID,
		Kind:    models.KindTestMessage,
		Message: input.Message,
		Address: setting.Address,
		Channel: services.ChannelFor(setting.Address),
	}
	if sendErr != nil {
		entry.ErrorMessage = sendErr.Error()
	} else {
		now := time.Now()
		entry.Sent = true
		entry.SentAt = &now
		entry.ProviderID = providerID
	}
	if err := n.Logs.Record(entry); err != nil {
		// The test outcome still reaches the caller; only the audit trail is lost.
		log.Printf("[NOTIFY] failed to record test delivery for user %s: %v", user.ID, err)
	}

	if sendErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   sendErr.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    "Test message delivered",
		"providerId": providerID,
	})
}

// GetMyLogs returns the caller's dispatch log entries, newest first
func (n *NotificationController) GetMyLogs(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 || limit > 100 {
		utils.RespondWithError(c, http.StatusBadRequest, "limit must be an integer between 1 and 100")
		return
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		utils.RespondWithError(c, http.StatusBadRequest, "offset must be a non-negative integer")
		return
	}

	logs, err := n.Logs.Recent(user.ID, limit, offset)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve logs")
		return
	}

	c.JSON(http.StatusOK, logs)
}

// GetStats returns notification counters for elevated roles
func (n *NotificationController) GetStats(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	if !user.IsAdmin() {
		utils.RespondWithError(c, http.StatusForbidden, "Administrator role required")
		return
	}

	var enabledRecipients int64
	if err := config.DB.Model(&models.NotificationSetting{}).
		Where("enabled = ?", true).
		Count(&enabledRecipients).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to count recipients")
		return
	}

	now := time.Now()
	sentToday, err := n.Logs.CountForDay(now, true)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to count sent notifications")
		return
	}
	failedToday, err := n.Logs.CountForDay(now, false)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to count failed notifications")
		return
	}

	itemsInWindow, err := n.Scheduler.ItemsInWindow()
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to count items in window")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"enabledRecipients": enabledRecipients,
		"sentToday":         sentToday,
		"failedToday":       failedToday,
		"itemsInWindow":     itemsInWindow,
	})
}

// ForceRun triggers one evaluation pass immediately. bypass_window skips the
// time-of-day check for verification; the daily dedup check always applies.
func (n *NotificationController) ForceRun(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	if !user.IsAdmin() {
		utils.RespondWithError(c, http.StatusForbidden, "Administrator role required")
		return
	}

	bypassWindow, _ := strconv.ParseBool(c.DefaultQuery("bypass_window", "false"))

	dispatched, err := n.Scheduler.RunOnce(c.Request.Context(), bypassWindow)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Evaluation pass failed: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"dispatched":   dispatched,
		"bypassWindow": bypassWindow,
		"executedAt":   time.Now().Format(time.RFC3339),
	})
}
