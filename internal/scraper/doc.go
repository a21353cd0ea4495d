// Package scraper fetches the Boxing247 fight schedule page and flattens it to text.
//
// The page is fetched with a browser-like User-Agent, retried with exponential backoff
// on network errors, 429 and 5xx responses, and parsed with goquery. Script, style and
// noscript nodes are dropped; every remaining text node is joined with a single space,
// which is the form the schedule parser expects.
package scraper
