package resilience

import (
	"context"
	"errors"
	"net"

	"github.com/aws/aws-sdk-go/aws/awserr"

	"github.com/confsource/confsource/interfaces"
)

// ErrorKind is the normalized classification of a remote source failure.
type ErrorKind string

const (
	// KindServiceUnavailable covers outages and 5xx-class responses. Transient.
	KindServiceUnavailable ErrorKind = "service-unavailable"
	// KindTimeout covers deadline and transport timeouts. Transient.
	KindTimeout ErrorKind = "timeout"
	// KindThrottling covers rate limiting. Transient, backed off harder.
	KindThrottling ErrorKind = "throttling"
	// KindCredentials covers missing or invalid credentials. Permanent.
	KindCredentials ErrorKind = "credentials"
	// KindAccessDenied covers valid credentials without authorization. Permanent.
	KindAccessDenied ErrorKind = "access-denied"
	// KindResourceNotFound covers absent secrets and parameters. Permanent.
	KindResourceNotFound ErrorKind = "resource-not-found"
	// KindUnknown is the single fallback arm for unrecognized signatures,
	// treated conservatively as permanent.
	KindUnknown ErrorKind = "unknown"
)

// String returns the kind name.
func (k ErrorKind) String() string {
	return string(k)
}

// Retryable reports whether the kind is transient.
func (k ErrorKind) Retryable() bool {
	switch k {
	case KindServiceUnavailable, KindTimeout, KindThrottling:
		return true
	default:
		return false
	}
}

// kindByCode is the closed classification table over service error codes. It
// covers the AWS SDK codes raised by Secrets Manager, SSM, and the credential
// chain, plus the canonical codes the Vault loader maps HTTP statuses onto.
var kindByCode = map[string]ErrorKind{
	interfaces.CodeServiceUnavailable: KindServiceUnavailable,
	"ServiceUnavailableException":     KindServiceUnavailable,
	"InternalServiceError":            KindServiceUnavailable,
	"InternalServerError":             KindServiceUnavailable,
	"InternalFailure":                 KindServiceUnavailable,

	interfaces.CodeTimeout:    KindTimeout,
	"RequestTimeoutException": KindTimeout,
	"RequestCanceled":         KindTimeout,

	interfaces.CodeThrottling:  KindThrottling,
	"ThrottlingException":      KindThrottling,
	"TooManyRequestsException": KindThrottling,
	"RequestLimitExceeded":     KindThrottling,

	interfaces.CodeCredentials:    KindCredentials,
	"UnrecognizedClientException": KindCredentials,
	"InvalidClientTokenId":        KindCredentials,
	"ExpiredTokenException":       KindCredentials,
	"NoCredentialProviders":       KindCredentials,

	interfaces.CodeAccessDenied: KindAccessDenied,
	"AccessDeniedException":     KindAccessDenied,
	"UnauthorizedOperation":     KindAccessDenied,

	interfaces.CodeResourceNotFound: KindResourceNotFound,
	"ResourceNotFoundException":     KindResourceNotFound,
	"ParameterNotFound":             KindResourceNotFound,
}

// KindOf classifies an error. Service codes carried by *interfaces.SourceError
// or a bare awserr.Error take priority; transport-level signatures are checked
// next; everything else is KindUnknown.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindUnknown
	}

	var srcErr *interfaces.SourceError
	if errors.As(err, &srcErr) && srcErr.Code != "" {
		if kind, ok := kindByCode[srcErr.Code]; ok {
			return kind
		}
	}

	var aerr awserr.Error
	if errors.As(err, &aerr) {
		if kind, ok := kindByCode[aerr.Code()]; ok {
			return kind
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return KindTimeout
		}
		// Connection-level failures (refused, reset, no route).
		return KindServiceUnavailable
	}

	return KindUnknown
}

// IsRetryable reports whether the error classifies as transient.
func IsRetryable(err error) bool {
	return KindOf(err).Retryable()
}
