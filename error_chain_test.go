package asynclog

import (
	"errors"
	"strings"
	"testing"
	"time"

	smerrors "github.com/Station-Manager/errors"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func TestBuildErrorChain_WithDetailedAndStd(t *testing.T) {
	inner := smerrors.New("os.OpenFile").Msg("open /var/log/app: permission denied")
	middle := smerrors.New("asynclog.fileSink.rotate").Err(inner).Msg(errMsgOpenFile)
	outer := smerrors.New("asynclog.fileSink.write").Err(middle).Msg(errMsgWriteFile)

	chain, ops, root, rootOp := buildErrorChain(outer)
	assert.Equal(t, []string{
		errMsgWriteFile,
		errMsgOpenFile,
		"open /var/log/app: permission denied",
	}, chain)
	assert.Equal(t, []string{"asynclog.fileSink.write", "asynclog.fileSink.rotate", "os.OpenFile"}, ops)
	assert.Equal(t, "open /var/log/app: permission denied", root)
	assert.Equal(t, "os.OpenFile", rootOp)

	wrapped := smerrors.New("wrap.Std").Errorf("wrap: %w", outer)
	chain2, _, root2, _ := buildErrorChain(wrapped)
	assert.True(t, strings.HasPrefix(chain2[0], "wrap:"))
	assert.Equal(t, root, root2)
}

func TestBuildErrorChain_Plain(t *testing.T) {
	chain, ops, root, rootOp := buildErrorChain(errors.New("disk full"))
	assert.Equal(t, []string{"disk full"}, chain)
	assert.Equal(t, []string{""}, ops)
	assert.Equal(t, "disk full", root)
	assert.Empty(t, rootOp)

	chain, _, root, _ = buildErrorChain(nil)
	assert.Empty(t, chain)
	assert.Empty(t, root)
	assert.Empty(t, joinChain(nil))
	assert.Equal(t, "a -> b", joinChain([]string{"a", "b"}))
}

func TestReportError_EmitsChainFields(t *testing.T) {
	out := &syncBuffer{}
	s := &Service{diagOut: out}
	s.diag = s.initializeDiagnostics()
	s.diagLimit = rate.NewLimiter(rate.Every(time.Hour), 1)

	inner := smerrors.New("os.OpenFile").Msg("no space left on device")
	outer := smerrors.New("asynclog.fileSink.write").Err(inner).Msg(errMsgWriteFile)
	s.reportError("Log line dropped", outer)
	s.reportError("suppressed", outer)

	got := out.String()
	assert.Contains(t, got, "Log line dropped")
	assert.Contains(t, got, "component="+ServiceName)
	assert.Contains(t, got, "error_chain=")
	assert.Contains(t, got, "error_history=")
	assert.Contains(t, got, "error_root_op=os.OpenFile")
	assert.Contains(t, got, "dropped_lines=0")
	assert.NotContains(t, got, "suppressed")
}
