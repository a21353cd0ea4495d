// Package notifier announces newly listed fight cards.
//
// Twitter posts go through dghubble/go-twitter with OAuth1 user credentials, Telegram
// posts through the Bot API sendMessage endpoint. Every channel paces its posts with a
// token-bucket limiter and stops at the first failure so the caller can keep the
// unannounced cards for the next run. DryRunNotifier renders the same messages to a
// writer without posting.
package notifier
