package service

import "testing"

func TestBuildModelARN(t *testing.T) {
	tests := []struct {
		name      string
		stored    string
		region    string
		accountID string
		want      string
	}{
		{
			name:      "空配置使用默认模型并插入账号",
			stored:    "",
			region:    "us-east-1",
			accountID: "123456789012",
			want:      "arn:aws:bedrock:us-east-1:123456789012:inference-profile/global.anthropic.claude-haiku-4-5-20251001-v1:0",
		},
		{
			name:      "旧格式缺账号段时补齐",
			stored:    "arn:aws:bedrock:us-west-2::inference-profile/us.anthropic.claude-3-5-sonnet-20241022-v2:0",
			region:    "us-west-2",
			accountID: "999999999999",
			want:      "arn:aws:bedrock:us-west-2:999999999999:inference-profile/us.anthropic.claude-3-5-sonnet-20241022-v2:0",
		},
		{
			name:      "已带账号段的 ARN 原样使用",
			stored:    "arn:aws:bedrock:us-east-1:111122223333:inference-profile/global.anthropic.claude-haiku-4-5-20251001-v1:0",
			region:    "us-east-1",
			accountID: "123456789012",
			want:      "arn:aws:bedrock:us-east-1:111122223333:inference-profile/global.anthropic.claude-haiku-4-5-20251001-v1:0",
		},
		{
			name:      "基础模型 ARN 原样使用",
			stored:    "arn:aws:bedrock:eu-west-1::foundation-model/anthropic.claude-v2",
			region:    "eu-west-1",
			accountID: "123456789012",
			want:      "arn:aws:bedrock:eu-west-1::foundation-model/anthropic.claude-v2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildModelARN(tt.stored, tt.region, tt.accountID)
			if got != tt.want {
				t.Errorf("BuildModelARN() = %q, want %q", got, tt.want)
			}
		})
	}
}
