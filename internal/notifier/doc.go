// Package notifier runs one poll: fetch the latest video, compare it with the
// last announced id, send a Telegram message when it is new and record the id
// once delivery is confirmed.
//
// # Gate
//
// ShouldNotify is the whole deduplication rule: a video is announced when its
// id differs from the stored one, or unconditionally when reposting is
// allowed. Only the newest video is considered; uploads published between two
// runs other than the newest are never announced.
//
// # State
//
// The stored id only ever moves forward after a successful send. A failed send
// leaves it untouched so the next run retries the same video. A failed save
// after a successful send is logged and may cause one duplicate announcement.
package notifier
