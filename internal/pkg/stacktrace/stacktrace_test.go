package stacktrace

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInternalPaths(t *testing.T) {
	dump := []byte(`goroutine 1 [running]:
runtime/debug.Stack()
	/usr/local/go/src/runtime/debug/stack.go:26 +0x5e
github.com/shandysiswandi/notekeep/internal/identity/usecase.(*Usecase).IssueOTP(...)
	/app/internal/identity/usecase/otp_issue.go:42 +0x1a
net/http.HandlerFunc.ServeHTTP(...)
	/usr/local/go/src/net/http/server.go:2220 +0x29
github.com/shandysiswandi/notekeep/internal/pkg/router.middlewareRecoverer.func1(...)
	/app/internal/pkg/router/middleware_recover.go:17
`)

	assert.Equal(t, []string{
		"internal/identity/usecase/otp_issue.go:42",
		"internal/pkg/router/middleware_recover.go:17",
	}, InternalPaths(dump))
}

func TestInternalPaths_NoInternalFrames(t *testing.T) {
	assert.Empty(t, InternalPaths([]byte("goroutine 1 [running]:\nmain.main()\n\t/app/main.go:10 +0x1\n")))
	assert.NotEmpty(t, InternalPaths(debug.Stack()))
}
