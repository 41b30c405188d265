package chat

import (
	"errors"
	"fmt"

	"github.com/whatmeme/whatmeme-webapp/llm"
	"github.com/whatmeme/whatmeme-webapp/types"
)

var (
	ErrMissingMessages   = errors.New("messages 배열이 필요합니다.")
	ErrMissingCredential = errors.New("OPENAI_API_KEY 환경 변수가 설정되지 않았습니다.")
)

// user-facing guidance for classified provider failures
const (
	MsgQuotaExceeded = "OpenAI API 쿼터가 초과되었습니다. 계정의 결제 정보와 사용량을 확인해주세요."
	MsgUnauthorized  = "OpenAI API 키가 유효하지 않습니다. .env.local 파일의 OPENAI_API_KEY를 확인해주세요."
	MsgUnknown       = "알 수 없는 오류가 발생했습니다."
)

// ValidationError reports a malformed chat request.
type ValidationError struct {
	Err    error
	Detail string
}

func (e *ValidationError) Error() string {
	if e.Detail == "" {
		return e.Err.Error()
	}
	return e.Err.Error() + " (" + e.Detail + ")"
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ValidateHistory checks that history is a non-empty sequence of
// user, assistant and system messages.
func ValidateHistory(history []types.ChatMessage) error {
	if len(history) == 0 {
		return &ValidationError{Err: ErrMissingMessages}
	}
	for i, msg := range history {
		if !msg.Role.Valid() {
			return &ValidationError{Err: ErrMissingMessages, Detail: fmt.Sprintf("messages[%d]: unsupported role %q", i, msg.Role)}
		}
	}
	return nil
}

// DescribeError renders a turn failure for the end user.
func DescribeError(err error) string {
	switch {
	case err == nil:
		return ""
	case llm.IsQuotaExceeded(err):
		return MsgQuotaExceeded
	case llm.IsUnauthorized(err):
		return MsgUnauthorized
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return MsgUnknown
}
