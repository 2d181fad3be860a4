// Package lsp is a language server for smali files. It reports parse
// errors and, given a reference disassembly, structural differences.
package lsp

import (
	"errors"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/ubi/compare"
	"github.com/dhamidi/ubi/ignore"
)

const lsName = "ubi"

var log = commonlog.GetLogger("ubi.lsp")

type Server struct {
	handler protocol.Handler
	server  *server.Server
	version string

	mu  sync.RWMutex
	cfg compare.Config
}

// NewServer creates a server comparing documents under cfg. Clients may
// override cfg.RefDir with the "referenceDir" initialization option.
func NewServer(version string, cfg compare.Config) *Server {
	s := &Server{
		version: version,
		cfg:     cfg,
	}

	s.handler = protocol.Handler{
		Initialize:            s.initialize,
		Initialized:           s.initialized,
		Shutdown:              s.shutdown,
		SetTrace:              s.setTrace,
		TextDocumentDidOpen:   s.textDocumentDidOpen,
		TextDocumentDidChange: s.textDocumentDidChange,
		TextDocumentDidClose:  s.textDocumentDidClose,
		TextDocumentDidSave:   s.textDocumentDidSave,
	}

	s.server = server.NewServer(&s.handler, lsName, false)

	return s
}

func (s *Server) RunStdio() error {
	return s.server.RunStdio()
}

func (s *Server) config() compare.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

func (s *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	rootDir := "."
	if params.RootPath != nil && *params.RootPath != "" {
		rootDir = *params.RootPath
	} else if params.RootURI != nil && *params.RootURI != "" {
		if path, err := uriToPath(*params.RootURI); err == nil {
			rootDir = path
		}
	}

	s.mu.Lock()
	if opts, ok := params.InitializationOptions.(map[string]any); ok {
		if dir, ok := opts["referenceDir"].(string); ok && dir != "" {
			s.cfg.RefDir = dir
		}
	}
	if s.cfg.RefDir != "" && !filepath.IsAbs(s.cfg.RefDir) {
		s.cfg.RefDir = filepath.Join(rootDir, s.cfg.RefDir)
	}
	s.mu.Unlock()

	capabilities := s.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    intPtr(int(protocol.TextDocumentSyncKindFull)),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &s.version,
		},
	}, nil
}

func (s *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cfg.RefDir == "" {
		log.Infof("no reference directory configured, reporting parse errors only")
		return nil
	}
	log.Infof("comparing against %s", s.cfg.RefDir)
	if s.cfg.Ignore != nil {
		return nil
	}
	l, err := ignore.Load(filepath.Join(s.cfg.RefDir, ignore.FileName))
	switch {
	case err == nil:
		s.cfg.Ignore = l
	case errors.Is(err, fs.ErrNotExist):
	default:
		log.Warningf("%v", err)
	}
	return nil
}

func (s *Server) shutdown(ctx *glsp.Context) error {
	return nil
}

func (s *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (s *Server) publish(ctx *glsp.Context, uri protocol.DocumentUri, text string) {
	if !strings.HasSuffix(uri, ".smali") {
		return
	}
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: Diagnose(s.config(), text),
	})
}

func (s *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.publish(ctx, params.TextDocument.URI, params.TextDocument.Text)
	return nil
}

func (s *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) > 0 {
		change := params.ContentChanges[len(params.ContentChanges)-1]
		if textChange, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			s.publish(ctx, params.TextDocument.URI, textChange.Text)
		}
	}
	return nil
}

func (s *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})
	return nil
}

func (s *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	if params.Text != nil {
		s.publish(ctx, params.TextDocument.URI, *params.Text)
		return nil
	}
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		log.Warningf("read %s: %v", path, err)
		return nil
	}
	s.publish(ctx, params.TextDocument.URI, string(data))
	return nil
}

func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.Clean(parsed.Path), nil
	}
	return uri, nil
}

func boolPtr(b bool) *bool {
	return &b
}

func intPtr(i int) *protocol.TextDocumentSyncKind {
	v := protocol.TextDocumentSyncKind(i)
	return &v
}
