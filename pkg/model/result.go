package model

// Success is a successful validation outcome. Response is nil when
// only URL syntactic validity was checked (e.g. a non-http(s) scheme,
// or a robots.txt denial, both of which are success-without-response).
type Success struct {
	Response *Response
}

// Result is the per-link outcome: exactly one of Success or Err is
// meaningful, discriminated by IsError.
type Result struct {
	Success Success
	Err     *Error
}

// IsError reports whether this Result carries an error.
func (r Result) IsError() bool { return r.Err != nil }

// Ok builds a successful Result, optionally carrying the Response
// that produced it.
func Ok(resp *Response) Result {
	return Result{Success: Success{Response: resp}}
}

// Fail builds a failed Result.
func Fail(err *Error) Result {
	return Result{Err: err}
}
