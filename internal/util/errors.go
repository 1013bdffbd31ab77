package util

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCredentials = errors.New("Incorrect username or password")
	ErrAdminExists        = errors.New("Admin already exists")
	ErrQuestionNotFound   = errors.New("Question not found")
	ErrImageNotFound      = errors.New("Image not found")
)

// ConfigurationError 必需配置缺失，映射为 400
type ConfigurationError struct {
	Msg string
}

func (e *ConfigurationError) Error() string {
	return e.Msg
}

func NewConfigurationError(setting string) *ConfigurationError {
	return &ConfigurationError{Msg: setting + " not configured"}
}

// ValidationError 请求内容不合法，映射为 400
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// UpstreamError 外部依赖调用失败，映射为 500
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
