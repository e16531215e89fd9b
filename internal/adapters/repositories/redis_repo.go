package repositories

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/esdrassantos06/go-adserver/internal/core/domain"
	"github.com/esdrassantos06/go-adserver/internal/core/ports"
)

// Key layout: adsrv:ad:{slot}-{id} (hash), adsrv:slot:{slot} (rotation list),
// adsrv:advertiser:{id} (index set), adsrv:ad-next (global id counter).
const (
	namespace   = "adsrv:"
	nextIDKey   = namespace + "ad-next"
	adKeyPrefix = namespace + "ad:"
)

func adKey(key domain.AdKey) string {
	return adKeyPrefix + key.String()
}

func slotKey(slot string) string {
	return namespace + "slot:" + slot
}

func advertiserKey(advertiser domain.AdvertiserID) string {
	return namespace + "advertiser:" + string(advertiser)
}

// parseAdKey reverses adKey. The id follows the last dash so slots containing
// dashes round-trip.
func parseAdKey(member string) (domain.AdKey, bool) {
	rest, ok := strings.CutPrefix(member, adKeyPrefix)
	if !ok {
		return domain.AdKey{}, false
	}
	sep := strings.LastIndexByte(rest, '-')
	if sep <= 0 {
		return domain.AdKey{}, false
	}
	id, err := strconv.ParseInt(rest[sep+1:], 10, 64)
	if err != nil {
		return domain.AdKey{}, false
	}
	return domain.AdKey{Slot: rest[:sep], ID: id}, true
}

type RedisRepo struct {
	Client *redis.Client
}

func NewRedisRepo(client *redis.Client) ports.AdRepository {
	return &RedisRepo{Client: client}
}

func (r *RedisRepo) NextID(ctx context.Context) (int64, error) {
	return r.Client.Incr(ctx, nextIDKey).Result()
}

func (r *RedisRepo) SaveAd(ctx context.Context, ad domain.Ad) error {
	return r.Client.HSet(ctx, adKey(ad.Key()), map[string]any{
		"slot":        ad.Slot,
		"id":          ad.ID,
		"title":       ad.Title,
		"type":        ad.Type,
		"advertiser":  ad.Advertiser,
		"destination": ad.Destination,
		"impressions": ad.Impressions,
		"asset":       ad.AssetURL,
		"counter":     ad.CounterURL,
		"redirect":    ad.RedirectURL,
	}).Err()
}

func (r *RedisRepo) GetAd(ctx context.Context, slot string, id int64) (domain.Ad, error) {
	fields, err := r.Client.HGetAll(ctx, adKey(domain.AdKey{Slot: slot, ID: id})).Result()
	if err != nil {
		return domain.Ad{}, err
	}
	if len(fields) == 0 {
		return domain.Ad{}, domain.ErrNotFound
	}

	// All coercion from the stringly hash happens here and nowhere else.
	storedID, _ := strconv.ParseInt(fields["id"], 10, 64)
	impressions, _ := strconv.ParseInt(fields["impressions"], 10, 64)

	return domain.Ad{
		Slot:        fields["slot"],
		ID:          storedID,
		Title:       fields["title"],
		Type:        fields["type"],
		Advertiser:  fields["advertiser"],
		Destination: fields["destination"],
		Impressions: impressions,
		AssetURL:    fields["asset"],
		CounterURL:  fields["counter"],
		RedirectURL: fields["redirect"],
	}, nil
}

func (r *RedisRepo) IncrementImpressions(ctx context.Context, slot string, id int64) error {
	key := adKey(domain.AdKey{Slot: slot, ID: id})

	exists, err := r.Client.Exists(ctx, key).Result()
	if err != nil {
		return err
	}
	if exists == 0 {
		return domain.ErrNotFound
	}

	return r.Client.HIncrBy(ctx, key, "impressions", 1).Err()
}

func (r *RedisRepo) PushRotation(ctx context.Context, slot string, id int64) error {
	return r.Client.RPush(ctx, slotKey(slot), id).Err()
}

// RotateSlot moves the list's tail to its head in one LMOVE, so concurrent
// rotations never observe a malformed list.
func (r *RedisRepo) RotateSlot(ctx context.Context, slot string) (int64, error) {
	key := slotKey(slot)
	raw, err := r.Client.LMove(ctx, key, key, "RIGHT", "LEFT").Result()
	if err == redis.Nil {
		return 0, domain.ErrSlotEmpty
	}
	if err != nil {
		return 0, err
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed rotation entry %q in slot %s: %w", raw, slot, err)
	}
	return id, nil
}

func (r *RedisRepo) RemoveFromRotation(ctx context.Context, slot string, id int64) error {
	return r.Client.LRem(ctx, slotKey(slot), 0, id).Err()
}

func (r *RedisRepo) AddToAdvertiserIndex(ctx context.Context, advertiser domain.AdvertiserID, key domain.AdKey) error {
	return r.Client.SAdd(ctx, advertiserKey(advertiser), adKey(key)).Err()
}

func (r *RedisRepo) ListAdvertiserAdKeys(ctx context.Context, advertiser domain.AdvertiserID) ([]domain.AdKey, error) {
	members, err := r.Client.SMembers(ctx, advertiserKey(advertiser)).Result()
	if err != nil {
		return nil, err
	}

	keys := make([]domain.AdKey, 0, len(members))
	for _, member := range members {
		if key, ok := parseAdKey(member); ok {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

// WipeAll scans the namespace and deletes keys in batches of 1000.
func (r *RedisRepo) WipeAll(ctx context.Context) error {
	iter := r.Client.Scan(ctx, 0, namespace+"*", 1000).Iterator()

	batch := make([]string, 0, 1000)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == cap(batch) {
			if err := r.Client.Del(ctx, batch...).Err(); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(batch) > 0 {
		return r.Client.Del(ctx, batch...).Err()
	}
	return nil
}
