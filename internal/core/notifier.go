package core

import (
	"api/internal/models"
	"api/internal/notifier"

	"go.uber.org/zap"
)

// NewNotifier selects the channel security mails go through: SMTP in
// production, the filesystem writer for local development and tests.
func NewNotifier(config models.NotifierConfiguration) notifier.INotifier {
	switch config.Type {
	case "smtp":
		return notifier.NewSMTPNotifier(*config.SMTP)
	case "filesystem":
		return notifier.NewFilesystemNotifier(*config.Filesystem)
	default:
		zap.L().Fatal("Unknown notifier type", zap.String("type", config.Type))
		return nil
	}
}
