// Package calendar implements the schedule calendar provider on top of the
// Google Calendar API.
//
// Example usage:
//
//	httpClient, err := google.GetHTTPClient(ctx, credentialsFile, tokenFile)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	client, err := calendar.NewClient(ctx, loc, option.WithHTTPClient(httpClient))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	events, err := client.ListEvents(ctx, schedule.DayRangeQuery("primary", day, day, 50))
package calendar
