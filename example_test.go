package http

import (
	"context"
	"fmt"
)

func ExampleClient() {
	cl := &Client{}
	ctx := WithClientTrace(context.Background(), &ClientTrace{
		Redirect: func(code int, location string) {
			fmt.Println("redirected:", code, location)
		},
	})
	var body Text
	resp, err := cl.Fetch(ctx, &Request{
		Method: "GET",
		URL:    "http://www.google.com/?a=b",
		Header: Header{
			// "Connection": {"close"},
		},
	}, &body)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(resp.Status, resp.URL)
	fmt.Println(body)
}

func ExampleClient_UseCoreDialer() {
	cl := &Client{}
	cl.UseCoreDialer(func(d *CoreDialer) Dialer {
		d.ResolveConfig = &ResolveConfig{StaticHosts: map[string]string{"example.com": "127.0.0.1"}}
		return d
	})
	_, text, err := cl.FetchText(context.Background(), &Request{URL: "http://example.com:8080/"})
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(text)
}
