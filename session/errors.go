package session

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/mpv-handler/mpv-handler/emby"
	"github.com/mpv-handler/mpv-handler/link"
)

// ErrSettings marks a session that could not be set up from the configuration.
var ErrSettings = errors.New("invalid settings")

// AbortError is returned by Run when a session cannot go on.
// State is where it failed.
type AbortError struct {
	State State
	Err   error
}

func (e *AbortError) Error() string {
	return fmt.Sprintf("%s: %v", strings.ToLower(e.State.String()), e.Err)
}

func (e *AbortError) Unwrap() error {
	return e.Err
}

// Diagnostic is the bilingual summary shown to the user, followed by the cause.
func (e *AbortError) Diagnostic() string {
	return e.summary() + "\n" + e.Err.Error()
}

func (e *AbortError) summary() string {
	var (
		field  *link.FieldError
		apiErr *emby.APIError
	)

	switch {
	case errors.Is(e.Err, link.ErrInvalidScheme):
		return "Not an mpv://play/ link / 不是有效的 mpv://play/ 链接"
	case errors.Is(e.Err, link.ErrDecodeFailed), errors.Is(e.Err, link.ErrEncodingFailed):
		return "The link could not be decoded / 链接解码失败"
	case errors.As(e.Err, &field):
		return fmt.Sprintf("The media URL has no %s / 媒体链接缺少 %s", field.Field, field.Field)
	case errors.Is(e.Err, ErrSettings):
		return "The handler settings are invalid / 配置无效"
	case errors.Is(e.Err, emby.ErrNoSession):
		return "No active session on the server / 服务器上没有活动会话"
	case errors.As(e.Err, &apiErr) && apiErr.Status == http.StatusUnauthorized:
		return "The access token was rejected / 访问令牌无效"
	}

	switch e.State {
	case Resolving:
		return "Could not read user or playback data / 获取用户信息或播放进度失败"
	case Starting:
		return "Could not start the player / 启动播放器失败"
	default:
		return "Playback aborted / 播放中止"
	}
}
