package service

import (
	"fmt"
	"strings"
)

const inferenceProfileMarker = "::inference-profile/"

// BuildModelARN 组装带账号段的模型 ARN。
// 旧格式 `...bedrock:<region>::inference-profile/...` 缺少账号段，
// 需要把账号 ID 插入两个冒号之间；其余情况原样使用。
func BuildModelARN(stored, region, accountID string) string {
	if stored == "" {
		return fmt.Sprintf("arn:aws:bedrock:%s:%s:inference-profile/global.anthropic.claude-haiku-4-5-20251001-v1:0", region, accountID)
	}
	if strings.Contains(stored, inferenceProfileMarker) {
		return strings.Replace(stored, inferenceProfileMarker, ":"+accountID+":inference-profile/", 1)
	}
	return stored
}
