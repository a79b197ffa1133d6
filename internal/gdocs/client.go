package gdocs

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/docs/v1"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/BrooklynCarly/kindroot/internal/assemble"
	"github.com/BrooklynCarly/kindroot/internal/plan"
)

const documentMIME = "application/vnd.google-apps.document"

var scopes = []string{docs.DocumentsScope, drive.DriveFileScope}

// Client is the document service adapter for Google Docs. It implements
// assemble.DocumentService plus the document lifecycle calls (create,
// sharing) needed to obtain a target for batches and queries.
type Client struct {
	docs  *docs.Service
	drive *drive.Service
}

// NewClient builds a client from a service-account credentials file.
func NewClient(ctx context.Context, credentialsFile string) (*Client, error) {
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	creds, err := google.CredentialsFromJSON(ctx, data, scopes...)
	if err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}

	docsSvc, err := docs.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("docs service: %w", err)
	}
	driveSvc, err := drive.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("drive service: %w", err)
	}
	return &Client{docs: docsSvc, drive: driveSvc}, nil
}

// CreateDocument creates an empty Google Doc, optionally inside a Drive
// folder, and returns its document ID. Creation goes through the Drive API
// so shared drives and folder placement work with both auth modes.
func (c *Client) CreateDocument(ctx context.Context, title, folderID string) (string, error) {
	f := &drive.File{
		Name:     title,
		MimeType: documentMIME,
	}
	if folderID != "" {
		f.Parents = []string{folderID}
	}
	created, err := c.drive.Files.Create(f).Fields("id").SupportsAllDrives(true).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("create document: %w", err)
	}
	return created.Id, nil
}

// SetSharing grants access to the document. Empty arguments default to
// anyone-with-the-link as reader.
func (c *Client) SetSharing(ctx context.Context, docID, granteeType, role string) error {
	if granteeType == "" {
		granteeType = "anyone"
	}
	if role == "" {
		role = "reader"
	}
	_, err := c.drive.Permissions.Create(docID, &drive.Permission{
		Type: granteeType,
		Role: role,
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("set sharing on %s: %w", docID, err)
	}
	return nil
}

// SubmitBatch applies the operations in order as one batchUpdate call. The
// Docs API applies a batch atomically: any invalid request fails the whole
// batch with no partial application.
func (c *Client) SubmitBatch(ctx context.Context, docID string, ops []plan.Op) error {
	reqs, err := Requests(ops)
	if err != nil {
		return err
	}
	if len(reqs) == 0 {
		return nil
	}
	_, err = c.docs.Documents.BatchUpdate(docID, &docs.BatchUpdateDocumentRequest{
		Requests: reqs,
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("batch update %s: %w", docID, err)
	}
	return nil
}

// QueryStructure fetches the committed document and flattens its body into
// structure elements with buffer extents.
func (c *Client) QueryStructure(ctx context.Context, docID string) ([]assemble.Element, error) {
	doc, err := c.docs.Documents.Get(docID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get document %s: %w", docID, err)
	}
	if doc.Body == nil {
		return nil, nil
	}
	return elementsFromBody(doc.Body), nil
}

// DocumentURL returns the canonical edit URL for a document ID.
func DocumentURL(docID string) string {
	return "https://docs.google.com/document/d/" + docID + "/edit"
}
