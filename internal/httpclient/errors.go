package httpclient

import "github.com/webvalidator/webvalidator/pkg/model"

func httpError(message string, cause error) *model.Error {
	return model.NewError(model.ErrHTTPClient, message, cause)
}

func redirectLocationError(url string) *model.Error {
	return model.NewError(model.ErrRedirectLocation, "missing Location header after redirect from "+url, nil)
}

func tooManyRedirectsError(url string) *model.Error {
	return model.NewError(model.ErrTooManyRedirects, "exceeded max redirects following "+url, nil)
}

func robotsError(url string) *model.Error {
	return model.NewError(model.ErrRobotsTxt, "disallowed by robots.txt: "+url, nil)
}

func urlParseError(raw string, cause error) *model.Error {
	return model.NewError(model.ErrURLParse, "parse url "+raw, cause)
}

func cacheError(cause error) *model.Error {
	return model.NewError(model.ErrCache, "cache get-or-compute", cause)
}

func hostNotDefinedError(host string) *model.Error {
	return model.NewError(model.ErrHostNotDefined, "no site configuration resolves host "+host, nil)
}
