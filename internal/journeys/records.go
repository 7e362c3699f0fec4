package journeys

import (
	"context"

	"github.com/wedding-planner/wedding-e2e/internal/config"
	"github.com/wedding-planner/wedding-e2e/internal/locator"
	"github.com/wedding-planner/wedding-e2e/internal/scenario"
)

type field struct {
	role  locator.Role
	value func(f *scenario.Flow) string
}

func literal(v string) func(*scenario.Flow) string {
	return func(*scenario.Flow) string { return v }
}

func daysAhead(f *scenario.Flow) string {
	return f.DateFromToday(DaysAhead)
}

func fill(name string, fields ...field) scenario.Step {
	return scenario.Step{Phase: scenario.FormFilled, Name: name, Do: func(_ context.Context, f *scenario.Flow) error {
		for _, fl := range fields {
			if err := f.Fill(fl.role, fl.value(f)); err != nil {
				return err
			}
		}
		return nil
	}}
}

func submit(name string, role locator.Role) scenario.Step {
	return scenario.Step{Phase: scenario.Submitted, Name: name, Do: func(_ context.Context, f *scenario.Flow) error {
		return f.Submit(role)
	}}
}

func createEvent() scenario.Journey {
	return scenario.Journey{
		Name:        CreateEvent,
		Description: "create an event from the dashboard's new-event form",
		Needs:       config.NeedLogin,
		Steps: []scenario.Step{
			openLanding(),
			login(),
			{Phase: scenario.OnTargetView, Name: "scroll to the new-event form", Do: func(_ context.Context, f *scenario.Flow) error {
				return f.ScrollTo(locator.EventSection)
			}},
			fill("fill event details",
				field{locator.EventTitle, literal(EventTitle)},
				field{locator.EventDate, daysAhead},
				field{locator.EventDescription, literal(EventDescription)},
			),
			submit("create the event", locator.EventSubmit),
			expectText(EventTitle),
		},
	}
}

func createTask() scenario.Journey {
	return scenario.Journey{
		Name:        CreateTask,
		Description: "add a task with a due date from the dashboard",
		Needs:       config.NeedLogin,
		Steps: []scenario.Step{
			openLanding(),
			login(),
			{Phase: scenario.OnTargetView, Name: "scroll to the new-task form", Do: func(_ context.Context, f *scenario.Flow) error {
				return f.ScrollTo(locator.TaskTitle)
			}},
			fill("fill task details",
				field{locator.TaskTitle, literal(TaskTitle)},
				field{locator.TaskDueDate, daysAhead},
			),
			submit("add the task", locator.TaskSubmit),
			expectText(TaskTitle),
		},
	}
}

func addGuest() scenario.Journey {
	return scenario.Journey{
		Name:        AddGuest,
		Description: "open an existing event's guest list and add a guest",
		Needs:       config.NeedLogin,
		Steps: []scenario.Step{
			openLanding(),
			login(),
			{Phase: scenario.OnTargetView, Name: "open the first event's guest list", Do: func(ctx context.Context, f *scenario.Flow) error {
				if err := f.FollowFirst(ctx, locator.NavGuestsLink, "event"); err != nil {
					return err
				}
				return f.Wait(locator.GuestName, scenario.Visible)
			}},
			fill("fill guest details",
				field{locator.GuestName, literal(GuestName)},
				field{locator.GuestPhone, literal(GuestPhone)},
				field{locator.GuestCount, literal(GuestCount)},
			),
			submit("add the guest", locator.GuestSubmit),
			expectText(GuestName),
		},
	}
}

func addExpense() scenario.Journey {
	return scenario.Journey{
		Name:        AddExpense,
		Description: "open an existing event's budget and record an expense",
		Needs:       config.NeedLogin,
		Steps: []scenario.Step{
			openLanding(),
			login(),
			{Phase: scenario.OnTargetView, Name: "open the first event's budget", Do: func(ctx context.Context, f *scenario.Flow) error {
				return f.FollowFirst(ctx, locator.NavBudgetLink, "event with a budget")
			}},
			{Phase: scenario.OnTargetView, Name: "open the new-expense form", Do: func(_ context.Context, f *scenario.Flow) error {
				return f.Click(locator.ExpenseOpen)
			}},
			fill("fill expense details",
				field{locator.ExpenseTitle, literal(ExpenseTitle)},
				field{locator.ExpenseAmount, literal(ExpenseAmount)},
			),
			submit("save the expense", locator.ExpenseSubmit),
			expectText(ExpenseTitle),
		},
	}
}

func addVendor() scenario.Journey {
	return scenario.Journey{
		Name:        AddVendor,
		Description: "add a vendor on the vendors page",
		Needs:       config.NeedLogin,
		Steps: []scenario.Step{
			openLanding(),
			login(),
			{Phase: scenario.OnTargetView, Name: "open the vendors page", Do: func(_ context.Context, f *scenario.Flow) error {
				if err := f.Navigate(VendorsPath); err != nil {
					return err
				}
				return f.Click(locator.VendorOpen)
			}},
			fill("fill vendor name", field{locator.VendorName, literal(VendorName)}),
			{Phase: scenario.FormFilled, Name: "choose vendor category", Do: func(_ context.Context, f *scenario.Flow) error {
				return f.Select(locator.VendorCategory, VendorCategory)
			}},
			fill("fill vendor contact and price",
				field{locator.VendorPhone, literal(VendorPhone)},
				field{locator.VendorPrice, literal(VendorPrice)},
			),
			submit("save the vendor", locator.VendorSubmit),
			expectText(VendorName),
		},
	}
}
