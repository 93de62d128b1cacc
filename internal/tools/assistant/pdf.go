package assistant

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"majordomo/internal/perception"
	"majordomo/internal/tools"
)

// Extractor pulls plain text out of a PDF file.
type Extractor interface {
	ExtractText(ctx context.Context, path string) (string, error)
}

// FileExtractor reads documents straight from disk as text. It covers
// plain-text and markdown files; a real PDF parser plugs in behind the
// same interface.
type FileExtractor struct{}

// ExtractText reads the file at path.
func (FileExtractor) ExtractText(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Document is one loaded PDF.
type Document struct {
	Name string
	Path string
	Text string
}

// DocumentStore holds the text of loaded documents. Each PDF tool owns
// its own store, so loaded documents live exactly as long as the tool.
type DocumentStore struct {
	mu   sync.RWMutex
	docs map[string]Document
}

// NewDocumentStore creates an empty store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{docs: make(map[string]Document)}
}

// Put adds or replaces a document keyed by its name.
func (s *DocumentStore) Put(doc Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[doc.Name] = doc
}

// Get returns a document by name.
func (s *DocumentStore) Get(name string) (Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[name]
	return doc, ok
}

// Names lists loaded document names, sorted.
func (s *DocumentStore) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.docs))
	for name := range s.docs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len reports the number of loaded documents.
func (s *DocumentStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

const pdfContextLimit = 12000

// NewPDFTool builds the PDF tool. Documents are loaded with the
// extractor into the store, and questions are answered by the model
// over the loaded text.
func NewPDFTool(extractor Extractor, store *DocumentStore, client perception.Client) *tools.Tool {
	return &tools.Tool{
		Name:         "pdf_tool",
		Description:  "Loads PDF documents and answers questions about them",
		DataCategory: "documents",
		Schema: tools.Schema{
			Properties: map[string]tools.Property{
				"action":   {Type: "string", Description: "load, ask (default), or list"},
				"path":     {Type: "string", Description: "Path to a PDF file (for load)"},
				"document": {Type: "string", Description: "Loaded document name (for ask)"},
				"question": {Type: "string", Description: "Question about the document"},
				"input":    {Type: "string", Description: "Free-text request"},
			},
		},
		Execute: func(ctx context.Context, params map[string]any) (string, error) {
			switch stringParam(params, "action") {
			case "load":
				return loadDocument(ctx, extractor, store, stringParam(params, "path"))
			case "list":
				return listDocuments(store), nil
			default:
				return askDocument(ctx, store, client, params)
			}
		},
	}
}

func loadDocument(ctx context.Context, extractor Extractor, store *DocumentStore, path string) (string, error) {
	if path == "" {
		return "Which PDF should I load? Please give me a file path.", nil
	}
	if extractor == nil {
		return "", fmt.Errorf("pdf extractor not configured")
	}

	text, err := extractor.ExtractText(ctx, path)
	if err != nil {
		return "", fmt.Errorf("loading %s: %w", path, err)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	store.Put(Document{Name: name, Path: path, Text: text})
	return fmt.Sprintf("Loaded %q (%d characters). Ask me anything about it.", name, len(text)), nil
}

func listDocuments(store *DocumentStore) string {
	names := store.Names()
	if len(names) == 0 {
		return "No documents loaded yet. Use load with a PDF path first."
	}
	return "Loaded documents:\n- " + strings.Join(names, "\n- ")
}

func askDocument(ctx context.Context, store *DocumentStore, client perception.Client, params map[string]any) (string, error) {
	question := stringParam(params, "question")
	if question == "" {
		question = stringParam(params, "input")
	}
	if question == "" {
		return "What would you like to know about the document?", nil
	}

	doc, ok := resolveDocument(store, stringParam(params, "document"))
	if !ok {
		return "No documents loaded yet. Use load with a PDF path first.", nil
	}
	if client == nil {
		return "", fmt.Errorf("model client not configured for document Q&A")
	}

	text := doc.Text
	if len(text) > pdfContextLimit {
		text = text[:pdfContextLimit]
	}

	system := "You answer questions using only the provided document text. " +
		"If the answer is not in the document, say so."
	prompt := fmt.Sprintf("Document %q:\n%s\n\nQuestion: %s", doc.Name, text, question)

	answer, err := client.CompleteWithSystem(ctx, system, prompt)
	if err != nil {
		return "", fmt.Errorf("answering question about %s: %w", doc.Name, err)
	}
	return answer, nil
}

// resolveDocument picks the named document, or the only loaded one when
// no name is given.
func resolveDocument(store *DocumentStore, name string) (Document, bool) {
	if name != "" {
		return store.Get(name)
	}
	names := store.Names()
	if len(names) == 0 {
		return Document{}, false
	}
	return store.Get(names[len(names)-1])
}
