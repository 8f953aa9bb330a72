// Package web is the browser shell. Built for js/wasm it binds the
// controller to the page's DOM: the list and counters are rendered with
// package render, events are delegated from tasks-container by data-action,
// confirmations and prompts are drawn as in-page modals, and toasts are
// appended to document.body.
//
// The page must provide the elements named by the render.ID* constants.
package web
