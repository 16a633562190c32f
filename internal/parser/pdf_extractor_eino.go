package parser

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"interview-agent-go/internal/types"

	"github.com/cloudwego/eino-ext/components/document/parser/pdf"
	einoParser "github.com/cloudwego/eino/components/document/parser"
	einoschema "github.com/cloudwego/eino/schema"
)

// EinoPDFTextExtractor 使用 Eino PDF Parser 从简历PDF中提取纯文本
// 配置为按页分割，各页文本用换行符拼接后整体去除首尾空白，
// 页数信息由分页结果直接得出。
type EinoPDFTextExtractor struct {
	parser *pdf.PDFParser
	logger *log.Logger
}

// EinoPDFOption PDF提取器的配置选项
type EinoPDFOption func(*EinoPDFTextExtractor)

// WithEinoLogger 配置自定义日志记录器
func WithEinoLogger(logger *log.Logger) EinoPDFOption {
	return func(e *EinoPDFTextExtractor) {
		e.logger = logger
	}
}

// NewEinoPDFTextExtractor 初始化 Eino PDF 文本提取器
func NewEinoPDFTextExtractor(ctx context.Context, options ...EinoPDFOption) (*EinoPDFTextExtractor, error) {
	p, err := pdf.NewPDFParser(ctx, &pdf.Config{
		ToPages: true, // 按页返回文档，便于统计页数并按页序拼接
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Eino PDF parser: %w", err)
	}

	extractor := &EinoPDFTextExtractor{
		parser: p,
		logger: log.New(os.Stderr, "[PDF解析器] ", log.LstdFlags),
	}

	// 应用选项
	for _, option := range options {
		option(extractor)
	}

	return extractor, nil
}

// validateSource 在解析前校验来源文件
// 文件不存在或扩展名不是.pdf时返回 ValidationError，不会触碰解析器。
func validateSource(filePath string) error {
	if _, err := os.Stat(filePath); err != nil {
		return types.NewValidationError(fmt.Sprintf("文件不存在: %s", filePath))
	}
	if strings.ToLower(filepath.Ext(filePath)) != ".pdf" {
		return types.NewValidationError(fmt.Sprintf("文件必须是PDF文档: %s", filePath))
	}
	return nil
}

// ExtractFromFile 从给定的PDF文件路径中提取完整的纯文本内容和元数据
// 返回: 提取的文本内容 (string), 解析器元数据 (map[string]interface{}), 错误 (error)
func (e *EinoPDFTextExtractor) ExtractFromFile(ctx context.Context, filePath string) (string, map[string]interface{}, error) {
	if err := validateSource(filePath); err != nil {
		return "", nil, err
	}

	file, err := os.Open(filePath)
	if err != nil {
		return "", nil, types.NewValidationError(fmt.Sprintf("打开PDF文件失败: %v", err))
	}
	defer file.Close()

	return e.ExtractTextFromReader(ctx, file, filePath)
}

// ExtractTextFromReader 从 io.Reader 中提取文本
// 各页内容按页序用换行符拼接，最终结果去除首尾空白。
func (e *EinoPDFTextExtractor) ExtractTextFromReader(ctx context.Context, reader io.Reader, uri string) (string, map[string]interface{}, error) {
	startTime := time.Now()
	e.logger.Printf("开始从Reader提取PDF文本 (URI: %s)", uri)

	docs, err := e.parseWithTimeout(ctx, reader, uri)
	if err != nil {
		return "", nil, err
	}

	// 按页序拼接各页文本
	pageTexts := make([]string, 0, len(docs))
	for _, doc := range docs {
		pageTexts = append(pageTexts, doc.Content)
	}
	fullText := strings.TrimSpace(strings.Join(pageTexts, "\n"))

	// 以第一页的解析器元数据为基础，补充整体信息
	metadata := make(map[string]interface{})
	if len(docs) > 0 && docs[0].MetaData != nil {
		for k, v := range docs[0].MetaData {
			metadata[k] = v
		}
	}
	metadata["page_count"] = len(docs)
	metadata["text_length"] = len(fullText)
	metadata["processing_duration_ms"] = time.Since(startTime).Milliseconds()

	e.logger.Printf("PDF提取完成: %d页, %d个字符 (用时 %.2f秒)", len(docs), len(fullText), time.Since(startTime).Seconds())
	return fullText, metadata, nil
}

// GetInfo 获取PDF的基本信息（页数和解析器元数据），不返回正文
func (e *EinoPDFTextExtractor) GetInfo(ctx context.Context, filePath string) (int, map[string]interface{}, error) {
	if err := validateSource(filePath); err != nil {
		return 0, nil, err
	}

	file, err := os.Open(filePath)
	if err != nil {
		return 0, nil, types.NewValidationError(fmt.Sprintf("打开PDF文件失败: %v", err))
	}
	defer file.Close()

	docs, err := e.parseWithTimeout(ctx, file, filePath)
	if err != nil {
		return 0, nil, err
	}

	metadata := make(map[string]interface{})
	if len(docs) > 0 && docs[0].MetaData != nil {
		for k, v := range docs[0].MetaData {
			metadata[k] = v
		}
	}

	return len(docs), metadata, nil
}

// parseWithTimeout 调用eino解析器，解析失败时包装为 ExtractionError
func (e *EinoPDFTextExtractor) parseWithTimeout(ctx context.Context, reader io.Reader, uri string) ([]*einoschema.Document, error) {
	// 创建带超时的上下文
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	docs, err := e.parser.Parse(ctx, reader,
		einoParser.WithURI(uri),
	)
	if err != nil {
		e.logger.Printf("PDF解析失败 (URI: %s): %v", uri, err)
		return nil, types.NewExtractionError(fmt.Sprintf("eino PDF parser failed for URI %s: %v", uri, err))
	}
	if len(docs) == 0 {
		return nil, types.NewExtractionError(fmt.Sprintf("eino PDF parser returned no documents for URI %s", uri))
	}
	return docs, nil
}
