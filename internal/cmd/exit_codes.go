package cmd

import (
	"context"
	"errors"
	"net"
	"net/url"
	"strings"

	"github.com/spf13/pflag"

	"github.com/superset-community/superset-go"
)

const (
	exitOK        = 0
	exitGeneric   = 1
	exitUsage     = 2
	exitAuth      = 3
	exitNotFound  = 4
	exitForbidden = 5
	exitServer    = 7
	exitNetwork   = 8
)

// ExitCode maps an error to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return exitOK
	}
	if errors.Is(err, pflag.ErrHelp) {
		return exitOK
	}

	if code := exitCodeFromClientError(err); code != 0 {
		return code
	}
	if isUsageError(err) {
		return exitUsage
	}
	if isNetworkError(err) {
		return exitNetwork
	}
	return exitGeneric
}

func exitCodeFromClientError(err error) int {
	var clientErr *superset.Error
	if !errors.As(err, &clientErr) {
		return 0
	}
	switch clientErr.Kind {
	case superset.KindAuthentication:
		return exitAuth
	case superset.KindTransport:
		return exitNetwork
	case superset.KindHTTPResponse:
		switch {
		case clientErr.Code == 401:
			return exitAuth
		case clientErr.Code == 403:
			return exitForbidden
		case clientErr.Code == 404 || clientErr.Code == 410:
			return exitNotFound
		case clientErr.Code >= 500:
			return exitServer
		default:
			return exitGeneric
		}
	case superset.KindDecode, superset.KindSerialization, superset.KindUnexpected:
		return exitGeneric
	default:
		return 0
	}
}

func isNetworkError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "no such host") ||
		strings.Contains(msg, "tls") ||
		strings.Contains(msg, "certificate") ||
		strings.Contains(msg, "i/o timeout") ||
		strings.Contains(msg, "timeout")
}

func isUsageError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	indicators := []string{
		"unknown command",
		"unknown flag",
		"unknown shorthand flag",
		"flag needs an argument",
		"requires at least",
		"requires exactly",
		"invalid argument",
		"invalid value",
		"must be",
		"is required",
	}
	for _, indicator := range indicators {
		if strings.Contains(msg, indicator) {
			return true
		}
	}
	return false
}
