// Package chat defines the universal completion types shared by providers,
// the resilient client, and the gateway.
//
// A [Request] carries the conversation and tuning parameters in a
// provider-neutral shape; dialects map it to each provider's wire format.
// Streamed responses arrive as a channel of [Chunk] values, terminated by a
// chunk with Done set (or Err on failure) and channel close.
//
// [Collect] drains a stream into the full text. [Coalesce] merges small
// fragments for transports where per-fragment events are too chatty.
package chat
