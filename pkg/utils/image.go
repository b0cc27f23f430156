package utils

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"github.com/go-resty/resty/v2"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// LQIPWidth 占位图固定宽度，高度按比例
const LQIPWidth = 20

// DownloadImage 下载网络图片并返回字节切片
func DownloadImage(ctx context.Context, client *resty.Client, url string) ([]byte, error) {
	resp, err := client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("http get failed: %w", err)
	}

	if !resp.IsSuccess() {
		return nil, fmt.Errorf("download failed with status: %d", resp.StatusCode())
	}

	return resp.Body(), nil
}

// Thumbnail 解码图片并缩放到指定宽度 (保持宽高比)，重新编码为 JPEG
func Thumbnail(data []byte, width int) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	b := src.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("empty image %dx%d", b.Dx(), b.Dy())
	}
	height := b.Dy() * width / b.Dx()
	if height < 1 {
		height = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 70}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// ToDataURI 内联图片
func ToDataURI(data []byte, contentType string) string {
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// LQIP 下载 -> 缩略 -> base64 内联
func LQIP(ctx context.Context, client *resty.Client, url string) (string, error) {
	data, err := DownloadImage(ctx, client, url)
	if err != nil {
		return "", err
	}

	thumb, err := Thumbnail(data, LQIPWidth)
	if err != nil {
		return "", err
	}

	return ToDataURI(thumb, "image/jpeg"), nil
}
