/*
 * Copyright (c) 2025-2026, WSO2 LLC. (http://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pjdagdal/member-data-service/internal/dedupe/model"
	"github.com/pjdagdal/member-data-service/internal/system/config"
	errors2 "github.com/pjdagdal/member-data-service/internal/system/errors"
	"github.com/pjdagdal/member-data-service/internal/system/log"
)

const (
	SinkFile = "file"
	SinkS3   = "s3"

	reportTimeLayout = "20060102T150405.000Z"

	maxNameAttempts = 100
)

// ReportWriter persists dedupe reports and returns where each one was written.
type ReportWriter interface {
	Write(ctx context.Context, report *model.Report) (string, error)
}

// ReportName returns duplicates-report-<UTC timestamp, millisecond precision>[-applied].json.
func ReportName(at time.Time, apply bool) string {
	return reportName(at, apply, 0)
}

// reportName adds a -<n> discriminator for n > 0, used when the plain name is already taken.
func reportName(at time.Time, apply bool, n int) string {
	stamp := at.UTC().Format(reportTimeLayout)
	if n > 0 {
		stamp = fmt.Sprintf("%s-%d", stamp, n)
	}
	suffix := ""
	if apply {
		suffix = "-applied"
	}
	return fmt.Sprintf("duplicates-report-%s%s.json", stamp, suffix)
}

// EncodeReport renders the report as indented JSON.
func EncodeReport(report *model.Report) ([]byte, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// NewReportWriter builds the writer for the configured sink.
func NewReportWriter(cfg config.ReportConfig) (ReportWriter, error) {
	switch cfg.Sink {
	case SinkFile, "":
		return NewFileReportWriter(cfg.Dir), nil
	case SinkS3:
		writer, err := NewS3ReportWriter(cfg)
		if err != nil {
			return nil, err
		}
		return writer, nil
	default:
		return nil, fmt.Errorf("unsupported report sink: %s", cfg.Sink)
	}
}

// FileReportWriter writes reports into a local directory.
type FileReportWriter struct {
	Dir string
	Now func() time.Time
}

func NewFileReportWriter(dir string) *FileReportWriter {
	return &FileReportWriter{Dir: dir, Now: time.Now}
}

func (w *FileReportWriter) Write(_ context.Context, report *model.Report) (string, error) {

	data, err := EncodeReport(report)
	if err != nil {
		return "", writeError("Failed to encode dedupe report.", err)
	}
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return "", writeError(fmt.Sprintf("Failed to create report directory: %s", w.Dir), err)
	}
	at := w.Now()
	for n := 0; n < maxNameAttempts; n++ {
		target := filepath.Join(w.Dir, reportName(at, report.Apply, n))
		file, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", writeError(fmt.Sprintf("Failed to create report: %s", target), err)
		}
		_, err = file.Write(data)
		if closeErr := file.Close(); err == nil {
			err = closeErr
		}
		if err != nil {
			return "", writeError(fmt.Sprintf("Failed to write report: %s", target), err)
		}
		log.GetLogger().Info("Dedupe report written", log.String("path", target))
		return target, nil
	}
	return "", writeError(fmt.Sprintf("No free report name in %s", w.Dir), fs.ErrExist)
}

// S3ReportWriter uploads reports to an S3 compatible bucket.
type S3ReportWriter struct {
	client *minio.Client
	bucket string
	prefix string
	Now    func() time.Time
}

func NewS3ReportWriter(cfg config.ReportConfig) (*S3ReportWriter, error) {
	creds := credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, "")
	mc, err := minio.New(cfg.Endpoint, &minio.Options{Creds: creds, Secure: cfg.UseSSL})
	if err != nil {
		return nil, fmt.Errorf("failed to create object storage client: %w", err)
	}
	return &S3ReportWriter{client: mc, bucket: cfg.Bucket, prefix: cfg.Prefix, Now: time.Now}, nil
}

func (w *S3ReportWriter) Write(ctx context.Context, report *model.Report) (string, error) {

	data, err := EncodeReport(report)
	if err != nil {
		return "", writeError("Failed to encode dedupe report.", err)
	}
	key := path.Join(w.prefix, ReportName(w.Now(), report.Apply))
	_, err = w.client.PutObject(ctx, w.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return "", writeError(fmt.Sprintf("Failed to upload report: %s", key), err)
	}
	location := fmt.Sprintf("s3://%s/%s", w.bucket, key)
	log.GetLogger().Info("Dedupe report uploaded", log.String("location", location))
	return location, nil
}

func writeError(description string, err error) error {
	log.GetLogger().Debug(description, log.Error(err))
	return errors2.NewServerError(errors2.ErrorMessage{
		Code:        errors2.WRITE_DEDUPE_REPORT.Code,
		Message:     errors2.WRITE_DEDUPE_REPORT.Message,
		Description: description,
	}, errors2.StorageUnavailable(err))
}
