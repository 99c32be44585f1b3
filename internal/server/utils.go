package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
)

// WriteJSONError 返回 {"success":false,"error":...}
func WriteJSONError(w http.ResponseWriter, statusCode int, message string) {
	RespondWithJSON(w, statusCode, ErrorResponseDTO{Success: false, Error: message})
}

func RespondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Failed to marshal JSON response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	w.Write(response)
}

// parseLeadingInt 与前端 parseInt 的行为一致: 忽略前导空白,
// 读取可选符号和其后的连续数字,其余部分忽略。没有数字时返回 false。
func parseLeadingInt(s string) (int, bool) {
	s = strings.TrimLeft(s, " \t\n\r\v\f")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

// intOr 解析失败或结果为0时返回默认值
func intOr(s string, fallback int) int {
	n, ok := parseLeadingInt(s)
	if !ok || n == 0 {
		return fallback
	}
	return n
}
