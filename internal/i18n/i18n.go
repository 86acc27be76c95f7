// Package i18n 提供国际化支持
// 负责管理错误消息的语言包和翻译功能
package i18n

import (
	"strings"
	"sync"

	"github.com/go-playground/locales/en_US"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/weiwangfds/noteapi/internal/logger"
)

// 支持的语言
const (
	LangZhCN = "zh-CN"
	LangEnUS = "en-US"
)

var (
	instance *I18n
	once     sync.Once

	// 语言包存储
	translations = map[string]map[string]string{
		LangZhCN: {
			"success":               "成功",
			"internal_server_error": "服务器内部错误",
			"invalid_params":        "参数错误",
			"unauthorized":          "未授权",
			"not_found":             "资源未找到",

			"note_not_found":     "笔记不存在",
			"invalid_pagination": "分页参数无效",
			"tag_conflict":       "标签名称冲突",
			"tag_resolve_failed": "标签解析失败",

			"database_query":       "数据库查询错误",
			"database_insert":      "数据库插入错误",
			"database_update":      "数据库更新错误",
			"database_transaction": "数据库事务错误",

			"unknown_error": "未知错误",
		},
		LangEnUS: {
			"success":               "Success",
			"internal_server_error": "Internal Server Error",
			"invalid_params":        "Invalid Parameters",
			"unauthorized":          "Unauthorized",
			"not_found":             "Resource Not Found",

			"note_not_found":     "Note Not Found",
			"invalid_pagination": "Invalid Pagination Parameters",
			"tag_conflict":       "Tag Name Conflict",
			"tag_resolve_failed": "Failed To Resolve Tags",

			"database_query":       "Database Query Error",
			"database_insert":      "Database Insert Error",
			"database_update":      "Database Update Error",
			"database_transaction": "Database Transaction Error",

			"unknown_error": "Unknown Error",
		},
	}
)

// I18n 国际化管理器
type I18n struct {
	mu          sync.RWMutex
	translators map[string]ut.Translator
	defaultLang string
}

// GetInstance 获取I18n单例
func GetInstance() *I18n {
	once.Do(func() {
		instance = &I18n{
			translators: make(map[string]ut.Translator),
			defaultLang: LangEnUS,
		}
		instance.initTranslators()
	})
	return instance
}

// initTranslators 初始化翻译器
func (i *I18n) initTranslators() {
	zhCN := zh.New()
	enUS := en_US.New()
	uni := ut.New(enUS, zhCN, enUS)

	// 我们的语言代码 -> locale库的标识符
	langMappings := map[string]string{
		LangZhCN: "zh",
		LangEnUS: "en_US",
	}

	for ourLang, localeLang := range langMappings {
		trans, found := uni.GetTranslator(localeLang)
		if !found {
			logger.Errorf("translator not found for %s (locale: %s)", ourLang, localeLang)
			continue
		}
		i.translators[ourLang] = trans
	}
}

// Translate 根据键和语言获取翻译
// 不支持的语言回退到默认语言，找不到键时返回键本身
func (i *I18n) Translate(key, lang string) string {
	i.mu.RLock()
	defaultLang := i.defaultLang
	i.mu.RUnlock()

	if _, ok := i.translators[lang]; !ok {
		lang = defaultLang
	}

	if translation, found := translations[lang][key]; found {
		return translation
	}
	if lang != defaultLang {
		if translation, found := translations[defaultLang][key]; found {
			return translation
		}
	}

	logger.Warnf("translation not found: %s (lang: %s)", key, lang)
	return key
}

// SetDefaultLanguage 设置默认语言，不支持的语言会被忽略
func (i *I18n) SetDefaultLanguage(lang string) {
	if !i.IsSupportedLanguage(lang) {
		logger.Warnf("unsupported default language %q ignored", lang)
		return
	}
	i.mu.Lock()
	i.defaultLang = lang
	i.mu.Unlock()
}

// GetDefaultLanguage 获取默认语言
func (i *I18n) GetDefaultLanguage() string {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.defaultLang
}

// IsSupportedLanguage 检查语言是否支持
func (i *I18n) IsSupportedLanguage(lang string) bool {
	_, exists := i.translators[lang]
	return exists
}

// MatchLanguage 从Accept-Language请求头中挑出第一个支持的语言
// 例如 "zh-CN,zh;q=0.9,en;q=0.8" -> zh-CN；没有匹配时返回默认语言
func (i *I18n) MatchLanguage(header string) string {
	for _, part := range strings.Split(header, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		switch {
		case tag == "":
			continue
		case strings.EqualFold(tag, LangZhCN), strings.EqualFold(tag, "zh"):
			return LangZhCN
		case strings.EqualFold(tag, LangEnUS), strings.EqualFold(tag, "en"):
			return LangEnUS
		}
	}
	return i.GetDefaultLanguage()
}
