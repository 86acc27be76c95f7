package tag

import "strings"

// MaxNameLength 规范标签名的最大字符数，与tags.name列宽一致
const MaxNameLength = 50

// NormalizeTagName 把原始标签字符串转换为规范名称：去首尾空白并转小写
// 结果为空表示这不是一个标签
func NormalizeTagName(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// NormalizeTagNames 规范化一组标签，丢弃空值并按首次出现的顺序去重
func NormalizeTagNames(raws []string) []string {
	seen := make(map[string]struct{}, len(raws))
	names := make([]string, 0, len(raws))
	for _, raw := range raws {
		name := NormalizeTagName(raw)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

// ParseTagFilter 解析逗号分隔的标签过滤参数，例如 "work, Urgent" -> [work urgent]
func ParseTagFilter(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	return NormalizeTagNames(strings.Split(raw, ","))
}
