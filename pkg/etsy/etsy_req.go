package etsy

import (
	"context"
	"fmt"
	"net/url"
)

// ActiveListingsPath GET /shops/{shop_id}/listings/active
func ActiveListingsPath(shopID string) string {
	return fmt.Sprintf("/shops/%s/listings/active", url.PathEscape(shopID))
}

// ListingImagesPath GET /private/listings/{listing_id}/images
// listingID 通常是 json.Number，按原样输出
func ListingImagesPath(listingID any) string {
	return fmt.Sprintf("/private/listings/%s/images", url.PathEscape(fmt.Sprint(listingID)))
}

// ActiveListings 拉取店铺在售商品 (只取第一页)
func (c *Client) ActiveListings(ctx context.Context, shopID string) (*Response, error) {
	return c.Fetch(ctx, ActiveListingsPath(shopID), nil, nil)
}

// ListingImages 拉取单个商品的图片列表
func (c *Client) ListingImages(ctx context.Context, listingID any) (*Response, error) {
	return c.Fetch(ctx, ListingImagesPath(listingID), nil, nil)
}
