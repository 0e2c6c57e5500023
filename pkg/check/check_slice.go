package check

import "github.com/pkg/errors"

// Contains checks whether the actual value is contained in the expected list. This method returns
// an error with the provided message if the check fails.
func Contains(actual interface{}, expected []interface{}, msgAndArgs ...interface{}) error {
	for _, value := range expected {
		if value == actual {
			return nil
		}
	}
	return check(false, msgAndArgs, "%s not in %s", actual, expected)
}

// In is a typed convenience wrapper around Contains for string enums.
func In(actual string, expected []string, msgAndArgs ...interface{}) error {
	boxed := make([]interface{}, len(expected))
	for i, v := range expected {
		boxed[i] = v
	}
	return Contains(actual, boxed, msgAndArgs...)
}

// NotEmpty fails with the given message if s is the empty string.
func NotEmpty(s string, msgAndArgs ...interface{}) error {
	return check(s != "", msgAndArgs, "value must not be empty")
}

// check returns nil if ok, otherwise an error built from msgAndArgs if provided, or the
// format/args fallback otherwise.
func check(ok bool, msgAndArgs []interface{}, format string, args ...interface{}) error {
	if ok {
		return nil
	}
	if len(msgAndArgs) > 0 {
		return errors.New(messageFromMsgAndArgs(true, msgAndArgs...))
	}
	return errors.Errorf(format, args...)
}
