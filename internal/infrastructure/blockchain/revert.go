package blockchain

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/rpc"
)

var revertHexPattern = regexp.MustCompile(`0x[0-9a-fA-F]{8,}`)

// RevertError is a failed call annotated with its decoded revert reason
type RevertError struct {
	Reason string
	Err    error
}

func (e *RevertError) Error() string {
	return e.Err.Error() + ": " + e.Reason
}

func (e *RevertError) Unwrap() error {
	return e.Err
}

// DecodeRevert extracts a readable revert reason from an RPC error.
// Revert data is taken from rpc.DataError payloads, then from hex in the message.
func DecodeRevert(err error) (string, bool) {
	if err == nil {
		return "", false
	}

	var dataErr rpc.DataError
	if errors.As(err, &dataErr) {
		if data, ok := revertBytes(dataErr.ErrorData()); ok {
			return decodeRevertData(data)
		}
	}

	for _, candidate := range revertHexPattern.FindAllString(err.Error(), -1) {
		if data, ok := parseHexBytes(candidate); ok {
			return decodeRevertData(data)
		}
	}
	return "", false
}

func withRevertReason(err error) error {
	reason, ok := DecodeRevert(err)
	if !ok || strings.Contains(err.Error(), reason) {
		return err
	}
	return &RevertError{Reason: reason, Err: err}
}

func decodeRevertData(data []byte) (string, bool) {
	if len(data) < 4 {
		return "", false
	}
	if reason, err := abi.UnpackRevert(data); err == nil {
		return reason, true
	}

	for _, abiErr := range ERC20ABI.Errors {
		if !bytes.Equal(data[:4], abiErr.ID[:4]) {
			continue
		}
		values, err := abiErr.Inputs.Unpack(data[4:])
		if err != nil {
			return abiErr.Name, true
		}
		args := make([]string, 0, len(values))
		for i, v := range values {
			args = append(args, fmt.Sprintf("%s=%v", abiErr.Inputs[i].Name, v))
		}
		return abiErr.Name + "(" + strings.Join(args, ", ") + ")", true
	}
	return "unknown error 0x" + hex.EncodeToString(data[:4]), true
}

func revertBytes(value interface{}) ([]byte, bool) {
	switch v := value.(type) {
	case string:
		return parseHexBytes(v)
	case []byte:
		if len(v) == 0 {
			return nil, false
		}
		return bytes.Clone(v), true
	case map[string]interface{}:
		if raw, ok := v["data"]; ok {
			return revertBytes(raw)
		}
	}
	return nil, false
}

func parseHexBytes(raw string) ([]byte, bool) {
	value := strings.TrimPrefix(strings.TrimSpace(raw), "0x")
	if len(value) < 8 || len(value)%2 != 0 {
		return nil, false
	}
	data, err := hex.DecodeString(value)
	if err != nil {
		return nil, false
	}
	return data, true
}
