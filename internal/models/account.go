package models

import (
	"fmt"
	"strings"
)

// Account is one target AWS account and its notification destinations
type Account struct {
	AccountID        string `json:"account_id" yaml:"account_id"`
	Region           string `json:"region" yaml:"region"`
	IAMRole          string `json:"iam_role" yaml:"iam_role"`
	Description      string `json:"description,omitempty" yaml:"description,omitempty"`
	TeamsWebhook     string `json:"teams_webhook,omitempty" yaml:"teams_webhook,omitempty"`
	SlackWebhook     string `json:"slack_webhook,omitempty" yaml:"slack_webhook,omitempty"`
	TelegramBotToken string `json:"telegram_bot_token,omitempty" yaml:"telegram_bot_token,omitempty"`
	TelegramChatID   string `json:"telegram_chat_id,omitempty" yaml:"telegram_chat_id,omitempty"`
}

// Validate checks that the fields needed to reach the account are set
func (a Account) Validate() error {
	for _, f := range []struct{ name, value string }{
		{"account_id", a.AccountID},
		{"region", a.Region},
		{"iam_role", a.IAMRole},
	} {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("account entry missing required field: %s", f.name)
		}
	}
	return nil
}

// RoleARN returns the role to assume. A value starting with "arn:" is used as is.
func (a Account) RoleARN() string {
	if strings.HasPrefix(a.IAMRole, "arn:") {
		return a.IAMRole
	}
	return fmt.Sprintf("arn:aws:iam::%s:role/%s", a.AccountID, a.IAMRole)
}

// Title returns the description, falling back to the account ID
func (a Account) Title() string {
	if a.Description != "" {
		return a.Description
	}
	if a.AccountID != "" {
		return a.AccountID
	}
	return "account"
}
