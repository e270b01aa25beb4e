package playerjs

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/dop251/goja"
)

// Decipherer derives the signature scramble and n-parameter transforms
// from one player script. The cheap path parses the scramble op table with
// regexes; when the script no longer matches, the whole script is loaded
// into a goja runtime and the transforms are called in place.
type Decipherer struct {
	script []byte

	runtimeOnce sync.Once
	runtime     *playerRuntime
	runtimeErr  error
}

func NewDecipherer(script string) *Decipherer {
	return &Decipherer{script: []byte(script)}
}

// DecipherSignature resolves the scrambled 's' cipher token into the value
// the signature query parameter expects.
func (d *Decipherer) DecipherSignature(s string) (string, error) {
	ops, err := d.parseScrambleOps()
	if err == nil {
		sig := []byte(s)
		for _, op := range ops {
			sig = op(sig)
		}
		return string(sig), nil
	}

	decoded, runtimeErr := d.runtimeDecipherSignature(s)
	if runtimeErr == nil {
		return decoded, nil
	}
	return "", err
}

// DecipherN transforms the throttling 'n' query parameter.
func (d *Decipherer) DecipherN(n string) (string, error) {
	fn, err := d.nFunctionSource()
	if err == nil {
		decoded, evalErr := evalNFunction(fn, n)
		if evalErr == nil {
			return decoded, nil
		}
	}

	decoded, runtimeErr := d.runtimeDecipherN(n)
	if runtimeErr == nil {
		return decoded, nil
	}
	if err != nil {
		return "", err
	}
	return "", runtimeErr
}

const (
	jsIdent     = "[a-zA-Z_\\$][a-zA-Z_0-9]*"
	reverseBody = ":function\\(a\\)\\{" +
		"(?:return )?a\\.reverse\\(\\)" +
		"\\}"
	spliceBody = ":function\\(a,b\\)\\{" +
		"a\\.splice\\(0,b\\)" +
		"\\}"
	swapBody = ":function\\(a,b\\)\\{" +
		"var c=a\\[0\\];a\\[0\\]=a\\[b(?:%a\\.length)?\\];a\\[b(?:%a\\.length)?\\]=c(?:;return a)?" +
		"\\}"
)

var (
	nNamePatterns = []*regexp.Regexp{
		// Indexed lookup with trailing fallback symbol.
		regexp.MustCompile(`\.get\("n"\)\)&&\(b=([a-zA-Z0-9$]{0,3})\[(\d+)\](.+)\|\|([a-zA-Z0-9]{0,3})`),
		// Indexed call with fallback: b=XY[0](b)||ZZ
		regexp.MustCompile(`\.get\("n"\)\)\s*&&\s*\(b=([a-zA-Z0-9$]{1,})\[(\d+)\]\([a-zA-Z0-9$]{1,}\).+\|\|([a-zA-Z0-9$]{1,})`),
		// Direct call: b=XY(b)
		regexp.MustCompile(`\.get\("n"\)\)\s*&&\s*\(b=([a-zA-Z0-9$]{1,})\([a-zA-Z0-9$]{1,}\)`),
		// Optional chaining / loose spacing variants.
		regexp.MustCompile(`\.get\("n"\).*?&&.*?([a-zA-Z0-9$]{1,})\([a-zA-Z0-9$]{1,}\)`),
	}
	opTablePattern = regexp.MustCompile(fmt.Sprintf(
		"(?:var|let|const)\\s+(%s)=\\{((?:(?:%s%s|%s%s|%s%s),?\\n?)+)\\}\\s*;?",
		jsIdent, jsIdent, swapBody, jsIdent, spliceBody, jsIdent, reverseBody))
	reverseKeyPattern    = regexp.MustCompile(fmt.Sprintf("(?m)(?:^|,)(%s)%s", jsIdent, reverseBody))
	spliceKeyPattern     = regexp.MustCompile(fmt.Sprintf("(?m)(?:^|,)(%s)%s", jsIdent, spliceBody))
	swapKeyPattern       = regexp.MustCompile(fmt.Sprintf("(?m)(?:^|,)(%s)%s", jsIdent, swapBody))
	scrambleFuncPatterns = []*regexp.Regexp{
		// function XX(a){...}
		regexp.MustCompile(fmt.Sprintf(
			"function(?:\\s+%s)?\\(a\\)\\{"+
				"a=a\\.split\\([^\\)]*\\);\\s*"+
				"((?:(?:a=)?%s(?:\\.%s|\\[[^\\]]+\\])\\(a,\\d+\\);?\\s*)+)"+
				"return a\\.join\\([^\\)]*\\)"+
				"\\}", jsIdent, jsIdent, jsIdent)),
		// XX=function(a){...}
		regexp.MustCompile(fmt.Sprintf(
			"%s\\s*=\\s*function\\(a\\)\\{"+
				"a=a\\.split\\([^\\)]*\\);\\s*"+
				"((?:(?:a=)?%s(?:\\.%s|\\[[^\\]]+\\])\\(a,\\d+\\);?\\s*)+)"+
				"return a\\.join\\([^\\)]*\\)"+
				"\\}", jsIdent, jsIdent, jsIdent)),
	}
)

// parseScrambleOps locates the scramble op table and the function applying
// it, and compiles the call sequence into scrambleOps.
func (d *Decipherer) parseScrambleOps() ([]scrambleOp, error) {
	table := opTablePattern.FindSubmatch(d.script)
	calls := d.scrambleFuncBody()
	if len(table) < 3 || len(calls) == 0 {
		return nil, fmt.Errorf("scramble routine not found (#table=%d, #calls=%d)", len(table), len(calls))
	}

	tableName := table[1]
	tableBody := table[2]

	var reverseKey, spliceKey, swapKey string
	if m := reverseKeyPattern.FindSubmatch(tableBody); len(m) > 1 {
		reverseKey = string(m[1])
	}
	if m := spliceKeyPattern.FindSubmatch(tableBody); len(m) > 1 {
		spliceKey = string(m[1])
	}
	if m := swapKeyPattern.FindSubmatch(tableBody); len(m) > 1 {
		swapKey = string(m[1])
	}

	// Matches both dotted and bracketed member calls against the table.
	callPattern, err := regexp.Compile(fmt.Sprintf(
		"(?:a=)?%s(?:\\.(%s|%s|%s)|\\[(?:\"(%s|%s|%s)\"|'(%s|%s|%s)')\\])\\(a,(\\d+)\\)",
		regexp.QuoteMeta(string(tableName)),
		regexp.QuoteMeta(reverseKey),
		regexp.QuoteMeta(spliceKey),
		regexp.QuoteMeta(swapKey),
		regexp.QuoteMeta(reverseKey),
		regexp.QuoteMeta(spliceKey),
		regexp.QuoteMeta(swapKey),
		regexp.QuoteMeta(reverseKey),
		regexp.QuoteMeta(spliceKey),
		regexp.QuoteMeta(swapKey),
	))
	if err != nil {
		return nil, err
	}

	var ops []scrambleOp
	for _, call := range callPattern.FindAllSubmatch(calls, -1) {
		if len(call) < 5 {
			continue
		}
		key := firstSubmatch(call[1], call[2], call[3])
		arg, _ := strconv.Atoi(string(call[4]))
		switch key {
		case reverseKey:
			ops = append(ops, reverseOp)
		case swapKey:
			ops = append(ops, swapHeadOp(arg))
		case spliceKey:
			ops = append(ops, spliceOp(arg))
		}
	}
	if len(ops) == 0 {
		return nil, fmt.Errorf("scramble routine matched but yielded no ops")
	}
	return ops, nil
}

func (d *Decipherer) scrambleFuncBody() []byte {
	for _, re := range scrambleFuncPatterns {
		if m := re.FindSubmatch(d.script); len(m) > 1 {
			return m[1]
		}
	}
	return nil
}

// nFunctionSource finds the n-transform's name at its call site and
// returns the function's source text.
func (d *Decipherer) nFunctionSource() (string, error) {
	for _, re := range nNamePatterns {
		m := re.FindSubmatch(d.script)
		if len(m) == 0 {
			continue
		}

		switch len(m) {
		case 5:
			// Indexed lookup; index 0 resolves to the fallback symbol.
			if idx, err := strconv.Atoi(string(m[2])); err == nil && idx == 0 {
				return d.functionSource(string(m[4]))
			}
			return d.functionSource(string(m[1]))
		case 4:
			if idx, err := strconv.Atoi(string(m[2])); err == nil && idx == 0 {
				return d.functionSource(string(m[3]))
			}
			return d.functionSource(string(m[1]))
		default:
			return d.functionSource(string(m[1]))
		}
	}
	return "", errors.New("n-transform name not found")
}

// functionSource returns the source of the named function, scanning braces
// with string-literal awareness since the body may nest arbitrarily.
func (d *Decipherer) functionSource(name string) (string, error) {
	name = strings.TrimSpace(name)
	defs := [][]byte{
		[]byte(name + "=function("),
		[]byte(name + " = function("),
		[]byte("function " + name + "("),
	}
	start := -1
	for _, def := range defs {
		start = bytes.Index(d.script, def)
		if start >= 0 {
			break
		}
	}
	if start < 0 {
		return "", fmt.Errorf("function %s not defined in player script", name)
	}

	pos := start + bytes.IndexByte(d.script[start:], '{') + 1
	var quote byte
	for depth := 1; depth > 0; pos++ {
		if pos >= len(d.script) {
			return "", fmt.Errorf("function %s has an unterminated body", name)
		}
		switch b := d.script[pos]; b {
		case '{':
			if quote == 0 {
				depth++
			}
		case '}':
			if quote == 0 {
				depth--
			}
		case '`', '"', '\'':
			if pos > 1 && d.script[pos-1] == '\\' && d.script[pos-2] != '\\' {
				continue
			}
			if quote == 0 {
				quote = b
			} else if quote == b {
				quote = 0
			}
		}
	}
	return string(d.script[start:pos]), nil
}

func firstSubmatch(groups ...[]byte) string {
	for _, g := range groups {
		if len(g) > 0 {
			return string(g)
		}
	}
	return ""
}

func evalNFunction(source, arg string) (string, error) {
	const bind = "__nTransform"
	vm := goja.New()
	if _, err := vm.RunString(bind + "=" + source); err != nil {
		return "", err
	}
	var transform func(string) string
	if err := vm.ExportTo(vm.Get(bind), &transform); err != nil {
		return "", err
	}
	return transform(arg), nil
}

// playerRuntime holds a goja runtime with the full player script loaded
// and the two transform functions exported out of its closure.
type playerRuntime struct {
	mu       sync.Mutex
	vm       *goja.Runtime
	sigFunc  goja.Callable
	nURLFunc goja.Callable
}

var (
	runtimeSigNamePattern  = regexp.MustCompile(`const\s+[A-Za-z0-9_$]+=([A-Za-z0-9_$]+)\(16,decodeURIComponent\([^\)]*\.s\)\)`)
	runtimeNURLNamePattern = regexp.MustCompile(`([A-Za-z0-9_$]+)=function\(b\)\{try\{const\s+[A-Za-z0-9_$]+=\(new\s+g\.Mj\(b,!0\)\)\.get\("n"\)`)
	nPathSegmentPattern    = regexp.MustCompile(`/n/([^/?]+)`)
)

func (d *Decipherer) runtimeDecipherSignature(s string) (string, error) {
	rt, err := d.loadRuntime()
	if err != nil {
		return "", err
	}
	if rt.sigFunc == nil {
		return "", errors.New("player runtime exports no signature transform")
	}

	rt.mu.Lock()
	defer rt.mu.Unlock()

	out, err := rt.sigFunc(goja.Undefined(), rt.vm.ToValue(16), rt.vm.ToValue(s))
	if err != nil {
		return "", err
	}
	return out.String(), nil
}

func (d *Decipherer) runtimeDecipherN(n string) (string, error) {
	rt, err := d.loadRuntime()
	if err != nil {
		return "", err
	}
	if rt.nURLFunc == nil {
		return "", errors.New("player runtime exports no n transform")
	}

	// The exported function rewrites a whole videoplayback URL; feed it
	// one with the value in the /n/ path segment and read it back out.
	escaped := url.PathEscape(n)
	inputURL := "https://www.youtube.com/videoplayback/n/" + escaped + "/x?n=" + url.QueryEscape(n)

	rt.mu.Lock()
	out, err := rt.nURLFunc(goja.Undefined(), rt.vm.ToValue(inputURL))
	rt.mu.Unlock()
	if err != nil {
		return "", err
	}

	m := nPathSegmentPattern.FindStringSubmatch(out.String())
	if len(m) < 2 {
		return "", errors.New("rewritten url is missing the /n/ segment")
	}
	decoded, decodeErr := url.PathUnescape(m[1])
	if decodeErr != nil {
		return "", decodeErr
	}
	return decoded, nil
}

func (d *Decipherer) loadRuntime() (*playerRuntime, error) {
	d.runtimeOnce.Do(func() {
		d.runtime, d.runtimeErr = d.buildRuntime()
	})
	return d.runtime, d.runtimeErr
}

func (d *Decipherer) buildRuntime() (*playerRuntime, error) {
	script := string(d.script)
	sigName := ""
	nURLName := ""

	if m := runtimeSigNamePattern.FindStringSubmatch(script); len(m) > 1 {
		sigName = m[1]
	}
	if m := runtimeNURLNamePattern.FindStringSubmatch(script); len(m) > 1 {
		nURLName = m[1]
	}
	if sigName == "" && nURLName == "" {
		return nil, errors.New("no transform names found in player script")
	}

	// The transforms live inside the player's IIFE; append exports onto
	// the module object right before the closure ends.
	inject := ""
	if sigName != "" {
		inject += "g.__ytx_sig=" + sigName + ";"
	}
	if nURLName != "" {
		inject += "g.__ytx_nurl=" + nURLName + ";"
	}

	const closer = "})(_yt_player);"
	closerPos := strings.LastIndex(script, closer)
	if closerPos < 0 {
		return nil, errors.New("player script closure not found")
	}
	script = script[:closerPos] + inject + script[closerPos:]

	vm := goja.New()
	if _, err := vm.RunString(browserStubsJS); err != nil {
		return nil, err
	}
	if _, err := vm.RunString(script); err != nil {
		return nil, err
	}

	root := vm.Get("_yt_player")
	if root == nil || goja.IsUndefined(root) || goja.IsNull(root) {
		return nil, errors.New("player script defined no _yt_player root")
	}
	rootObj := root.ToObject(vm)

	rt := &playerRuntime{vm: vm}
	if sigVal := rootObj.Get("__ytx_sig"); sigVal != nil && !goja.IsUndefined(sigVal) && !goja.IsNull(sigVal) {
		if fn, ok := goja.AssertFunction(sigVal); ok {
			rt.sigFunc = fn
		}
	}
	if nURLVal := rootObj.Get("__ytx_nurl"); nURLVal != nil && !goja.IsUndefined(nURLVal) && !goja.IsNull(nURLVal) {
		if fn, ok := goja.AssertFunction(nURLVal); ok {
			rt.nURLFunc = fn
		}
	}
	if rt.sigFunc == nil && rt.nURLFunc == nil {
		return nil, errors.New("exported transforms are not callable")
	}
	return rt, nil
}

// browserStubsJS is the minimal browser surface the player script touches
// at load time. Everything is inert; only the transform closures matter.
const browserStubsJS = `
var globalThis = this;
if (typeof window === 'undefined') { var window = this; }
if (typeof document === 'undefined') { var document = {}; }
if (typeof navigator === 'undefined') { var navigator = {}; }
if (typeof self === 'undefined') { var self = this; }
if (typeof location === 'undefined') {
	var location = {
		href: 'https://www.youtube.com/watch?v=dQw4w9WgXcQ',
		protocol: 'https:',
		host: 'www.youtube.com',
		hostname: 'www.youtube.com',
		pathname: '/watch',
		search: '?v=dQw4w9WgXcQ',
		hash: '',
		origin: 'https://www.youtube.com'
	};
}
if (!window.location) { window.location = location; }
if (!window.navigator) { window.navigator = navigator; }
if (!window.document) { window.document = document; }
if (!window.top) { window.top = window; }
if (!window.parent) { window.parent = window; }
if (!window.performance) {
	window.performance = { now: function(){ return 0; }, mark: function(){}, measure: function(){}, clearMarks: function(){} };
}
if (!window.localStorage) {
	window.localStorage = { getItem: function(){ return null; }, setItem: function(){}, removeItem: function(){} };
}
if (!window.sessionStorage) {
	window.sessionStorage = { getItem: function(){ return null; }, setItem: function(){}, removeItem: function(){} };
}
if (!window.setTimeout) { window.setTimeout = function(fn){ return 0; }; }
if (!window.clearTimeout) { window.clearTimeout = function(){}; }
if (!window.setInterval) { window.setInterval = function(fn){ return 0; }; }
if (!window.clearInterval) { window.clearInterval = function(){}; }
if (!window.addEventListener) { window.addEventListener = function(){}; }
if (!window.removeEventListener) { window.removeEventListener = function(){}; }
if (!window.matchMedia) {
	window.matchMedia = function(){ return { matches: false, addListener: function(){}, removeListener: function(){} }; };
}
if (!window.crypto) {
	window.crypto = {
		getRandomValues: function(arr){ for (var i = 0; i < arr.length; i++) { arr[i] = 0; } return arr; }
	};
}
if (typeof XMLHttpRequest === 'undefined') {
	var XMLHttpRequest = function(){};
	XMLHttpRequest.prototype = {
		open: function(){},
		send: function(){},
		setRequestHeader: function(){},
		addEventListener: function(){},
		removeEventListener: function(){},
		getResponseHeader: function(){ return ''; },
		abort: function(){},
		readyState: 4,
		status: 200,
		responseText: '',
		response: null
	};
}
if (!window.XMLHttpRequest) { window.XMLHttpRequest = XMLHttpRequest; }
if (typeof Intl === 'undefined') { var Intl = {}; }
if (!Intl.DateTimeFormat) {
	Intl.DateTimeFormat = function(){ return { resolvedOptions: function(){ return { timeZone: 'UTC' }; } }; };
}
if (!Intl.NumberFormat) {
	Intl.NumberFormat = function(){ return { format: function(v){ return String(v); } }; };
	Intl.NumberFormat.supportedLocalesOf = function(){ return []; };
}
if (!Intl.PluralRules) {
	Intl.PluralRules = function(){ return { select: function(){ return 'other'; } }; };
	Intl.PluralRules.supportedLocalesOf = function(){ return []; };
}
if (!Intl.RelativeTimeFormat) {
	Intl.RelativeTimeFormat = function(){ return { format: function(v, u){ return String(v) + ' ' + String(u); } }; };
	Intl.RelativeTimeFormat.supportedLocalesOf = function(){ return []; };
}
if (!document.createElement) {
	document.createElement = function(){
		return {
			style: {},
			getContext: function(){ return null; },
			canPlayType: function(){ return ''; },
			setAttribute: function(){},
			removeAttribute: function(){},
			appendChild: function(){},
			addEventListener: function(){},
			removeEventListener: function(){}
		};
	};
}
if (!document.querySelectorAll) { document.querySelectorAll = function(){ return []; }; }
if (!document.getElementsByTagName) { document.getElementsByTagName = function(){ return []; }; }
if (!document.addEventListener) { document.addEventListener = function(){}; }
if (!document.removeEventListener) { document.removeEventListener = function(){}; }
if (!document.location) { document.location = window.location; }
if (!document.documentElement) { document.documentElement = { style: {} }; }
`
