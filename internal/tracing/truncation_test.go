package tracing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskPII(t *testing.T) {
	assert.Equal(t, "", MaskPII(""))
	assert.Equal(t, "*", MaskPII("a"))
	assert.Equal(t, "a*", MaskPII("ab"))
	assert.Equal(t, "a*c", MaskPII("abc"))
	assert.Equal(t, "a**d", MaskPII("abcd"))

	// 较长的值保留首尾各2个字符
	assert.Equal(t, "ja************io", MaskPII("jane.doe@acme.io"))
}

func TestTruncateString(t *testing.T) {
	// 不超限原样返回
	assert.Equal(t, "short", TruncateString("short", 10))

	// 截断时保留首尾并以省略号连接
	out := TruncateString(strings.Repeat("x", 50)+strings.Repeat("y", 50), 23)
	assert.Equal(t, 23, len([]rune(out)))
	assert.Equal(t, "xxxxxxxxxx...yyyyyyyyyy", out)

	// 极短上限直接前缀截断
	assert.Equal(t, "ab", TruncateString("abcdef", 2))
}

func TestSafeAttributeValue(t *testing.T) {
	// 敏感字段名触发掩码
	masked := SafeAttributeValue("user.email", "jane.doe@acme.io", DefaultMaxLength)
	assert.NotContains(t, masked, "acme")

	// 普通字段只做长度截断
	plain := SafeAttributeValue("object.key", "resume/abc/original.pdf", DefaultMaxLength)
	assert.Equal(t, "resume/abc/original.pdf", plain)
}
