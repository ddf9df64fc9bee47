package tor

import "errors"

// Proxy connectivity errors.
// Returned when the configured SOCKS5 proxy (an embedded Tor daemon or an
// operator-supplied address) cannot be used for probing.
//
// Design decision: We define specific error types rather than wrapping all
// errors generically. Probing through a misconfigured proxy would leak the
// operator's IP, so callers must be able to distinguish "not a SOCKS5
// endpoint" from transient connect failures and refuse to scan.
var (
	// ErrProxyNotTor is returned when the configured address accepts
	// connections but does not speak the SOCKS5 protocol. Common when the
	// port belongs to an HTTP proxy or an unrelated service.
	ErrProxyNotTor = errors.New("proxy is not a Tor SOCKS5 proxy")

	// ErrProxyCannotConnect is returned when no TCP connection can be
	// established to the proxy address. The daemon is not running or the
	// address is wrong.
	ErrProxyCannotConnect = errors.New("cannot connect to Tor proxy")

	// ErrProxyTimeout is returned when the connection attempt to the proxy
	// times out.
	ErrProxyTimeout = errors.New("timeout connecting to Tor proxy")

	// ErrInvalidProxyAddress is returned when the proxy address does not
	// parse as "host:port".
	ErrInvalidProxyAddress = errors.New("invalid proxy address format: expected host:port")
)

// ProxyStatus is the result of verifying the SOCKS5 proxy before a scan.
// The scan command checks the proxy up front and aborts on anything other
// than ProxyStatusOK rather than probing platforms over a broken tunnel.
type ProxyStatus int

const (
	// ProxyStatusOK indicates the proxy completed a SOCKS5 handshake and
	// is safe to route probe traffic through.
	ProxyStatusOK ProxyStatus = iota

	// ProxyStatusWrongType indicates the address answered but is not a
	// SOCKS5 proxy.
	ProxyStatusWrongType

	// ProxyStatusCannotConnect indicates no connection could be made to
	// the proxy address.
	ProxyStatusCannotConnect

	// ProxyStatusTimeout indicates the verification attempt timed out.
	ProxyStatusTimeout
)

// String returns a human-readable description of the proxy status.
func (s ProxyStatus) String() string {
	switch s {
	case ProxyStatusOK:
		return "OK"
	case ProxyStatusWrongType:
		return "wrong type (not Tor)"
	case ProxyStatusCannotConnect:
		return "cannot connect"
	case ProxyStatusTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// Error returns the sentinel error for this status, or nil if OK.
func (s ProxyStatus) Error() error {
	switch s {
	case ProxyStatusOK:
		return nil
	case ProxyStatusWrongType:
		return ErrProxyNotTor
	case ProxyStatusCannotConnect:
		return ErrProxyCannotConnect
	case ProxyStatusTimeout:
		return ErrProxyTimeout
	default:
		return errors.New("unknown proxy status")
	}
}
