package engine

import "github.com/sirupsen/logrus"

var log = logrus.New()

// SetLogger replaces the package logger. A nil logger is ignored.
func SetLogger(l *logrus.Logger) {
	if l != nil {
		log = l
	}
}
