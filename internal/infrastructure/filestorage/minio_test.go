package filestorage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"onghub/internal/core/files"
)

func TestCheck(t *testing.T) {
	tests := []struct {
		name string
		file files.File
		kind files.Kind
		want string
	}{
		{"image ok", files.File{Name: "a.png", ContentType: "image/png", Size: 10}, files.KindImage, ""},
		{"pdf as image", files.File{Name: "a.pdf", ContentType: "application/pdf", Size: 10}, files.KindImage, files.CodeInvalidImage},
		{"pdf any", files.File{Name: "a.pdf", ContentType: "application/pdf", Size: 10}, files.KindAny, ""},
		{"too large", files.File{Name: "a.xlsx", Size: 101}, files.KindAny, files.CodeTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := check(tt.file, tt.kind, 100)
			assert.Equal(t, tt.want, files.CodeOf(err))
		})
	}
}

func TestObjectKey(t *testing.T) {
	key := objectKey("12/logo", `C:\Users\ana\logo final.png`)

	assert.True(t, strings.HasPrefix(key, "12/logo/"))
	assert.True(t, strings.HasSuffix(key, "-logo final.png"))
	assert.NotEqual(t, key, objectKey("12/logo", "logo final.png"))
}
