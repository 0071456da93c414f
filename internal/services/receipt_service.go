package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/buddyike18/project-dine-backend/internal/common"
	"github.com/buddyike18/project-dine-backend/internal/models"
	"github.com/buddyike18/project-dine-backend/internal/repositories"

	"github.com/jung-kurt/gofpdf"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const receiptURLExpiry = 24 * time.Hour

// ObjectStore is the subset of *minio.Client used for receipts.
type ObjectStore interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	PresignedGetObject(ctx context.Context, bucketName, objectName string, expires time.Duration, reqParams url.Values) (*url.URL, error)
}

// NewMinioClient connects to an S3-compatible endpoint.
func NewMinioClient(endpoint, accessKey, secretKey string, useSSL bool) (*minio.Client, error) {
	return minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
}

// Receipt locates the rendered PDF of a paid check.
type Receipt struct {
	CheckID   int64     `json:"check_id"`
	Object    string    `json:"object"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

type ReceiptService interface {
	EnsureBucket(ctx context.Context) error
	Generate(ctx context.Context, checkID int64) (*Receipt, error)
}

type receiptService struct {
	exec   *Executor
	store  ObjectStore
	bucket string
}

func NewReceiptService(exec *Executor, store ObjectStore, bucket string) ReceiptService {
	return &receiptService{exec: exec, store: store, bucket: bucket}
}

func (s *receiptService) EnsureBucket(ctx context.Context) error {
	found, err := s.store.BucketExists(ctx, s.bucket)
	if err != nil {
		return err
	}
	if !found {
		return s.store.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
	}
	return nil
}

// ReceiptObject is the object key of a check's receipt.
func ReceiptObject(restaurantID, checkID int64) string {
	return fmt.Sprintf("receipts/%d/%d.pdf", restaurantID, checkID)
}

// Generate renders the receipt of a paid check, stores it and returns a presigned link.
func (s *receiptService) Generate(ctx context.Context, checkID int64) (*Receipt, error) {
	if err := common.ValidatePositiveID(checkID, "check_id"); err != nil {
		return nil, err
	}

	db := s.exec.DB()
	check, err := repositories.NewCheckRepo(db).GetByID(ctx, checkID)
	if err != nil {
		return nil, common.Classify("generate_receipt", "check", err)
	}
	if check.Status != models.CheckPaid {
		return nil, common.Validation("status", fmt.Sprintf("check %d is %s, only paid checks have receipts", check.ID, check.Status))
	}
	if err := loadLines(ctx, repositories.NewOrderLineRepo(db), check); err != nil {
		return nil, common.Persistence("generate_receipt", err)
	}
	payments, err := repositories.NewPaymentRepo(db).ListByCheck(ctx, check.ID)
	if err != nil {
		return nil, common.Persistence("generate_receipt", err)
	}

	pdf, err := RenderReceipt(check, payments)
	if err != nil {
		return nil, common.Persistence("generate_receipt", err)
	}

	object := ReceiptObject(check.RestaurantID, check.ID)
	_, err = s.store.PutObject(ctx, s.bucket, object, bytes.NewReader(pdf), int64(len(pdf)), minio.PutObjectOptions{
		ContentType: "application/pdf",
	})
	if err != nil {
		return nil, common.Persistence("upload_receipt", err)
	}

	link, err := s.store.PresignedGetObject(ctx, s.bucket, object, receiptURLExpiry, nil)
	if err != nil {
		return nil, common.Persistence("presign_receipt", err)
	}

	return &Receipt{
		CheckID:   check.ID,
		Object:    object,
		URL:       link.String(),
		ExpiresAt: time.Now().UTC().Add(receiptURLExpiry),
	}, nil
}

// RenderReceipt lays out a check as a single-page A4 PDF.
func RenderReceipt(check *models.Check, payments []*models.Payment) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, "RECEIPT")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Check #%d", check.ID))
	pdf.Ln(6)
	if check.TableLabel != nil && *check.TableLabel != "" {
		pdf.Cell(0, 6, fmt.Sprintf("Table: %s", *check.TableLabel))
		pdf.Ln(6)
	}
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s", check.UpdatedAt.Format("02-Jan-2006 15:04")))
	pdf.Ln(10)

	colWidths := []float64{70, 30, 35, 35}
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(240, 240, 240)
	for i, header := range []string{"Item", "Qty", "Price", "Amount"} {
		pdf.CellFormat(colWidths[i], 8, header, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	for _, line := range check.Lines {
		pdf.CellFormat(colWidths[0], 7, fmt.Sprintf("Menu item %d", line.MenuItemID), "1", 0, "L", false, 0, "")
		pdf.CellFormat(colWidths[1], 7, fmt.Sprintf("%d", line.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colWidths[2], 7, fmt.Sprintf("%.2f", line.Price), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colWidths[3], 7, fmt.Sprintf("%.2f", float64(line.Quantity)*line.Price), "1", 0, "R", false, 0, "")
		pdf.Ln(7)
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(135, 6, "Subtotal:", "", 0, "R", false, 0, "")
	pdf.CellFormat(35, 6, fmt.Sprintf("%.2f", check.Total), "", 0, "R", false, 0, "")
	pdf.Ln(6)
	tip := common.SafeFloat64(check.TipAmount)
	if tip > 0 {
		pdf.CellFormat(135, 6, "Tip:", "", 0, "R", false, 0, "")
		pdf.CellFormat(35, 6, fmt.Sprintf("%.2f", tip), "", 0, "R", false, 0, "")
		pdf.Ln(6)
	}

	pdf.SetFont("Arial", "", 9)
	for _, p := range payments {
		pdf.CellFormat(135, 5, fmt.Sprintf("Paid (%s):", p.Method), "", 0, "R", false, 0, "")
		pdf.CellFormat(35, 5, fmt.Sprintf("%.2f", p.Amount), "", 0, "R", false, 0, "")
		pdf.Ln(5)
	}

	pdf.Ln(10)
	pdf.SetFont("Arial", "I", 8)
	pdf.SetTextColor(128, 128, 128)
	pdf.Cell(0, 5, "Thank you for dining with us!")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render receipt: %w", err)
	}
	return buf.Bytes(), nil
}
