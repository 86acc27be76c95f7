package errors

import (
	stderrors "errors"
	"fmt"

	"github.com/weiwangfds/noteapi/internal/i18n"
)

// ErrorCode 错误码类型
type ErrorCode int

// 定义错误码常量
const (
	// 通用错误码 (1000-1999)
	ErrSuccess        ErrorCode = 0    // 成功
	ErrInternalServer ErrorCode = 1000 // 服务器内部错误
	ErrInvalidParams  ErrorCode = 1001 // 参数错误
	ErrUnauthorized   ErrorCode = 1002 // 未授权
	ErrNotFound       ErrorCode = 1004 // 资源未找到

	// 笔记相关错误码 (2000-2999)
	ErrNoteNotFound      ErrorCode = 2000 // 笔记不存在或不属于当前用户
	ErrInvalidPagination ErrorCode = 2001 // 分页参数无效

	// 标签相关错误码 (3000-3999)
	ErrTagConflict      ErrorCode = 3000 // 标签名称唯一约束冲突
	ErrTagResolveFailed ErrorCode = 3001 // 标签解析失败

	// 数据库相关错误码 (4000-4999)
	ErrDatabaseQuery       ErrorCode = 4001 // 数据库查询错误
	ErrDatabaseInsert      ErrorCode = 4002 // 数据库插入错误
	ErrDatabaseUpdate      ErrorCode = 4003 // 数据库更新错误
	ErrDatabaseTransaction ErrorCode = 4005 // 数据库事务错误
)

// Kind 错误分类，边界层据此映射为传输层状态码
type Kind int

const (
	KindInternal     Kind = iota // 存储不可用或意外故障
	KindNotFound                 // 实体不存在或不属于调用者，两者对外不可区分
	KindConflict                 // 唯一键冲突
	KindValidation               // 输入不合法
	KindUnauthorized             // 缺少或无效的调用者身份
)

// String 返回分类名称
func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindValidation:
		return "validation_failed"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "internal"
	}
}

// 错误码到分类的映射，未列出的错误码视为内部错误
var codeKinds = map[ErrorCode]Kind{
	ErrInvalidParams:     KindValidation,
	ErrInvalidPagination: KindValidation,
	ErrUnauthorized:      KindUnauthorized,
	ErrNotFound:          KindNotFound,
	ErrNoteNotFound:      KindNotFound,
	ErrTagConflict:       KindConflict,
}

// AppError 应用错误结构体
// @Description 应用程序统一错误格式
type AppError struct {
	// 错误码
	Code ErrorCode `json:"code"`
	// 错误消息
	Message string `json:"message"`
	// 详细错误信息
	Details string `json:"details,omitempty"`
	// 字段级校验错误
	Fields map[string]string `json:"fields,omitempty"`
	// 原始错误
	OriginalError error `json:"-"`
}

// Error 实现error接口
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%d] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 暴露原始错误，便于errors.Is/As
func (e *AppError) Unwrap() error {
	return e.OriginalError
}

// Kind 返回错误分类
func (e *AppError) Kind() Kind {
	if k, ok := codeKinds[e.Code]; ok {
		return k
	}
	return KindInternal
}

// WithDetails 添加详细错误信息
func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// WithFields 添加字段级校验错误
func (e *AppError) WithFields(fields map[string]string) *AppError {
	e.Fields = fields
	return e
}

// LocalizedMessage 按语言返回错误消息
func (e *AppError) LocalizedMessage(lang string) string {
	return GetErrorMessageWithLang(e.Code, lang)
}

// New 创建新的应用错误
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// NewWithDetails 创建带详细信息的应用错误
func NewWithDetails(code ErrorCode, message string, details string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// Wrap 包装原始错误
func Wrap(code ErrorCode, message string, err error) *AppError {
	appErr := &AppError{
		Code:          code,
		Message:       message,
		OriginalError: err,
	}
	if err != nil {
		appErr.Details = err.Error()
	}
	return appErr
}

// NoteNotFound 笔记不存在（包括已删除和他人的笔记）
func NoteNotFound(noteID uint) *AppError {
	return NewWithDetails(ErrNoteNotFound, GetErrorMessage(ErrNoteNotFound), fmt.Sprintf("note %d", noteID))
}

// Validation 创建校验失败错误
func Validation(message string) *AppError {
	return New(ErrInvalidParams, message)
}

// Internal 将未知错误包装为内部错误；已经是AppError的原样返回
func Internal(code ErrorCode, message string, err error) error {
	if _, ok := GetAppError(err); ok {
		return err
	}
	return Wrap(code, message, err)
}

// IsAppError 判断是否为应用错误
func IsAppError(err error) bool {
	_, ok := GetAppError(err)
	return ok
}

// GetAppError 从错误链中提取应用错误
func GetAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// KindOf 返回任意错误的分类，非AppError一律视为内部错误
func KindOf(err error) Kind {
	if appErr, ok := GetAppError(err); ok {
		return appErr.Kind()
	}
	return KindInternal
}

// IsNotFound 判断是否为不存在错误
func IsNotFound(err error) bool {
	return err != nil && KindOf(err) == KindNotFound
}

// IsValidation 判断是否为校验错误
func IsValidation(err error) bool {
	return err != nil && KindOf(err) == KindValidation
}

// 错误码到i18n键的映射
var errorCodeToKeyMap = map[ErrorCode]string{
	ErrSuccess:        "success",
	ErrInternalServer: "internal_server_error",
	ErrInvalidParams:  "invalid_params",
	ErrUnauthorized:   "unauthorized",
	ErrNotFound:       "not_found",

	ErrNoteNotFound:      "note_not_found",
	ErrInvalidPagination: "invalid_pagination",

	ErrTagConflict:      "tag_conflict",
	ErrTagResolveFailed: "tag_resolve_failed",

	ErrDatabaseQuery:       "database_query",
	ErrDatabaseInsert:      "database_insert",
	ErrDatabaseUpdate:      "database_update",
	ErrDatabaseTransaction: "database_transaction",
}

// GetErrorMessage 根据错误码获取错误消息（使用默认语言）
func GetErrorMessage(code ErrorCode) string {
	return GetErrorMessageWithLang(code, i18n.GetInstance().GetDefaultLanguage())
}

// GetErrorMessageWithLang 根据错误码和语言获取错误消息
func GetErrorMessageWithLang(code ErrorCode, lang string) string {
	key, exists := errorCodeToKeyMap[code]
	if !exists {
		key = "unknown_error"
	}
	return i18n.GetInstance().Translate(key, lang)
}
