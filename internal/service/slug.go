package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// slug 列为 varchar(255)，base 预留 "-N" 后缀空间
const (
	maxSlugLen     = 255
	maxSlugBaseLen = maxSlugLen - 11
)

// SlugSource 提供某张表中已占用的 slug
type SlugSource interface {
	TakenSlugs(ctx context.Context, base, excludeID string) ([]string, error)
}

// SlugResolver 将标题转换为表内唯一的 slug：base, base-1, base-2 ...
type SlugResolver struct {
	src SlugSource
}

func NewSlugResolver(src SlugSource) SlugResolver { return SlugResolver{src: src} }

// Resolve 优先使用 override，否则使用 text。两者都为空白时返回 ""，调用方保持原值。
// excludeID 为正在更新的记录，避免与自身冲突。
func (r SlugResolver) Resolve(ctx context.Context, text, override, excludeID string) (string, error) {
	source := strings.TrimSpace(override)
	if source == "" {
		source = strings.TrimSpace(text)
	}
	if source == "" {
		return "", nil
	}

	base := slug.Make(source)
	if base == "" {
		// 纯符号标题无法转写
		base = strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	}
	base = truncateSlug(base, maxSlugBaseLen)

	taken, err := r.src.TakenSlugs(ctx, base, excludeID)
	if err != nil {
		return "", fmt.Errorf("load taken slugs: %w", err)
	}
	return nextFreeSlug(base, taken), nil
}

// nextFreeSlug 在内存中计算第一个未占用的候选
func nextFreeSlug(base string, taken []string) string {
	used := make(map[string]struct{}, len(taken))
	for _, s := range taken {
		used[s] = struct{}{}
	}
	if _, ok := used[base]; !ok {
		return base
	}
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s-%d", base, i)
		if _, ok := used[candidate]; !ok {
			return candidate
		}
	}
}

// truncateSlug 截断到 limit 字节并去掉末尾的连字符；slug.Make 的输出只含 ASCII
func truncateSlug(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return strings.TrimRight(s[:limit], "-")
}
