// internal/client/notifier.go
package client

import (
	"github.com/sirupsen/logrus"
)

// Notifier surfaces non-blocking messages to the user.
type Notifier interface {
	Info(msg string)
	Warn(msg string, err error)
	Error(msg string, err error)
}

// LogNotifier writes notices through logrus.
type LogNotifier struct {
	Logger logrus.FieldLogger
}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{Logger: logrus.StandardLogger()}
}

func (n *LogNotifier) Info(msg string) {
	n.Logger.Info(msg)
}

func (n *LogNotifier) Warn(msg string, err error) {
	if err == nil {
		n.Logger.Warn(msg)
		return
	}
	n.Logger.WithError(err).Warn(msg)
}

func (n *LogNotifier) Error(msg string, err error) {
	n.Logger.WithError(err).Error(msg)
}
