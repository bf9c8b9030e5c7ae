// Last.fm metadata API client.
//
// Response types based on https://www.last.fm/api (album.search,
// artist.getTopAlbums, album.getInfo).
package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/sync/errgroup"
)

const defaultBaseURL = "http://ws.audioscrobbler.com/2.0/"

// UpstreamError 上游元数据 API 错误，原样传给调用方
type UpstreamError struct {
	Message string
}

func (e *UpstreamError) Error() string {
	return e.Message
}

// Config 客户端配置
type Config struct {
	BaseURL      string
	APIKey       string
	SearchLimit  int
	Timeout      time.Duration
	CacheTTL     time.Duration
	CacheEntries int64
}

// Client Last.fm 元数据客户端
type Client struct {
	baseURL     string
	apiKey      string
	searchLimit int
	httpClient  *http.Client
	cache       *Cache
}

// NewClient 创建新的元数据客户端
func NewClient(cfg Config) (*Client, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	limit := cfg.SearchLimit
	if limit <= 0 {
		limit = 5
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	cache, err := NewCache(cfg.CacheEntries, cfg.CacheTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to create metadata cache: %w", err)
	}

	return &Client{
		baseURL:     baseURL,
		apiKey:      cfg.APIKey,
		searchLimit: limit,
		httpClient:  &http.Client{Timeout: timeout},
		cache:       cache,
	}, nil
}

// Close 释放缓存资源
func (c *Client) Close() {
	if c.cache != nil {
		c.cache.Close()
	}
}

// SearchLimit 返回透传给上游的结果数量限制
func (c *Client) SearchLimit() int {
	return c.searchLimit
}

// lastfmImage 上游图片变体，列表按尺寸从小到大排列
type lastfmImage struct {
	URL  string `json:"#text"`
	Size string `json:"size"`
}

type lastfmSearchAlbum struct {
	Name   string        `json:"name"`
	Artist string        `json:"artist"`
	Images []lastfmImage `json:"image"`
}

type lastfmSearchResponse struct {
	Results struct {
		AlbumMatches struct {
			Album []lastfmSearchAlbum `json:"album"`
		} `json:"albummatches"`
	} `json:"results"`
}

type lastfmTopAlbum struct {
	Name   string `json:"name"`
	Artist struct {
		Name string `json:"name"`
	} `json:"artist"`
	Images []lastfmImage `json:"image"`
}

type lastfmTopAlbumsResponse struct {
	TopAlbums struct {
		Album []lastfmTopAlbum `json:"album"`
	} `json:"topalbums"`
}

type lastfmAlbumInfoResponse struct {
	Album struct {
		Name   string        `json:"name"`
		Artist string        `json:"artist"`
		Images []lastfmImage `json:"image"`
	} `json:"album"`
}

// Album 映射后的专辑元数据
type Album struct {
	AlbumName       string `json:"album_name"`
	ArtistName      string `json:"artist_name"`
	CoverURL        string `json:"cover_url"`
	CoverURLReserve string `json:"cover_url_reserve"`
}

// MixedResults 混合搜索结果：直接匹配 + 艺术家热门专辑
type MixedResults struct {
	Albums          []Album `json:"albums"`
	ArtistTopAlbums []Album `json:"artist_top_albums"`
}

// SearchAlbums 按专辑名搜索专辑（album.search）
func (c *Client) SearchAlbums(ctx context.Context, albumName string, limit int) ([]Album, error) {
	params := url.Values{}
	params.Set("method", "album.search")
	params.Set("album", albumName)
	params.Set("limit", fmt.Sprintf("%d", limit))

	var resp lastfmSearchResponse
	if err := c.sendRequest(ctx, params, &resp); err != nil {
		return nil, err
	}

	albums := make([]Album, 0, len(resp.Results.AlbumMatches.Album))
	for _, a := range resp.Results.AlbumMatches.Album {
		cover, reserve := coverFromImages(a.Images)
		albums = append(albums, Album{
			AlbumName:       a.Name,
			ArtistName:      a.Artist,
			CoverURL:        cover,
			CoverURLReserve: reserve,
		})
	}
	return albums, nil
}

// ArtistTopAlbums 获取艺术家热门专辑（artist.getTopAlbums）
func (c *Client) ArtistTopAlbums(ctx context.Context, artistName string, limit int) ([]Album, error) {
	params := url.Values{}
	params.Set("method", "artist.getTopAlbums")
	params.Set("artist", artistName)
	params.Set("limit", fmt.Sprintf("%d", limit))

	var resp lastfmTopAlbumsResponse
	if err := c.sendRequest(ctx, params, &resp); err != nil {
		return nil, err
	}

	albums := make([]Album, 0, len(resp.TopAlbums.Album))
	for _, a := range resp.TopAlbums.Album {
		cover, reserve := coverFromImages(a.Images)
		albums = append(albums, Album{
			AlbumName:       a.Name,
			ArtistName:      a.Artist.Name,
			CoverURL:        cover,
			CoverURLReserve: reserve,
		})
	}
	return albums, nil
}

// AlbumInfo 按艺术家+专辑名获取单张专辑（album.getInfo），用于封面补全
func (c *Client) AlbumInfo(ctx context.Context, artistName, albumName string) (*Album, error) {
	params := url.Values{}
	params.Set("method", "album.getInfo")
	params.Set("artist", artistName)
	params.Set("album", albumName)

	var resp lastfmAlbumInfoResponse
	if err := c.sendRequest(ctx, params, &resp); err != nil {
		return nil, err
	}

	cover, reserve := coverFromImages(resp.Album.Images)
	return &Album{
		AlbumName:       resp.Album.Name,
		ArtistName:      resp.Album.Artist,
		CoverURL:        cover,
		CoverURLReserve: reserve,
	}, nil
}

// SearchMixed 并行执行专辑搜索与艺术家热门专辑，两者完成后合并
// 两次调用之间没有顺序依赖
func (c *Client) SearchMixed(ctx context.Context, query string, limit int) (*MixedResults, error) {
	results := &MixedResults{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		albums, err := c.SearchAlbums(gctx, query, limit)
		if err != nil {
			return err
		}
		results.Albums = albums
		return nil
	})
	g.Go(func() error {
		albums, err := c.ArtistTopAlbums(gctx, query, limit)
		if err != nil {
			return err
		}
		results.ArtistTopAlbums = albums
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// sendRequest 发送请求并解析响应，上游错误映射为 UpstreamError
// 不做重试，失败直接返回给调用方
func (c *Client) sendRequest(ctx context.Context, params url.Values, dest interface{}) error {
	params.Set("api_key", c.apiKey)
	params.Set("format", "json")

	cacheKey := params.Encode()
	if err := c.cache.Get(cacheKey, dest); err == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+cacheKey, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &UpstreamError{Message: fmt.Sprintf("request failed: %s", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &UpstreamError{Message: fmt.Sprintf("failed to read response: %s", err)}
	}

	// Last.fm 在 HTTP 200 之外也会返回 {"error": N, "message": "..."}
	var apiErr struct {
		ErrorCode json.Number `json:"error"`
		Message   string      `json:"message"`
	}
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.ErrorCode != "" {
		return &UpstreamError{Message: apiErr.Message}
	}
	if resp.StatusCode != http.StatusOK {
		return &UpstreamError{Message: fmt.Sprintf("unexpected status: %s", resp.Status)}
	}

	if err := json.Unmarshal(body, dest); err != nil {
		return &UpstreamError{Message: fmt.Sprintf("failed to decode response: %s", err)}
	}

	if err := c.cache.Set(cacheKey, dest); err != nil {
		log.Printf("Failed to cache metadata response: %v", err)
	}
	return nil
}

// coverFromImages 从上游图片变体列表选取主封面和备用封面
// 列表从小到大排列：主封面取最后一个，备用取倒数第二个；
// 列表过短时用空字符串兜底
func coverFromImages(images []lastfmImage) (cover, reserve string) {
	if len(images) >= 1 {
		cover = images[len(images)-1].URL
	}
	if len(images) >= 2 {
		reserve = images[len(images)-2].URL
	}
	return cover, reserve
}

// IsUpstreamError 判断是否为上游 API 错误
func IsUpstreamError(err error) bool {
	var upstreamErr *UpstreamError
	return errors.As(err, &upstreamErr)
}
